package nexus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/distordia/nexgo/internal/codec"
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
)

// ListListings fetches all non-offline listing records, filtered on the
// node by discriminator equality. Limit caps the scan size.
func (c *Client) ListListings(ctx context.Context, limit int) ([]map[string]any, error) {
	where := fmt.Sprintf("results.%s=%s AND results.status!=%s",
		codec.DiscriminatorField, codec.ListingType, types.StatusOffline)

	raw, err := c.Call(ctx, EndpointListRegister, map[string]any{
		"where": where,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode listing records: %w", err)
	}
	return records, nil
}

// ListRawRecords fetches raw register payload strings globally. Records
// without a data field are dropped here, everything else is passed through
// for the aggregation pass to filter by discriminator.
func (c *Client) ListRawRecords(ctx context.Context, limit int) ([]string, error) {
	raw, err := c.Call(ctx, EndpointListRawAssets, map[string]any{
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	var records []struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode raw records: %w", err)
	}

	out := make([]string, 0, len(records))
	for _, r := range records {
		if r.Data == "" {
			continue
		}
		out = append(out, r.Data)
	}
	return out, nil
}

// GetAsset fetches a single record by ledger name
func (c *Client) GetAsset(ctx context.Context, name string) (map[string]any, error) {
	raw, err := c.Call(ctx, EndpointGetAsset, map[string]any{"name": name})
	if err != nil {
		return nil, err
	}

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record %q: %w", name, err)
	}
	return record, nil
}

// ListOwnListings lists listing records owned by the session identity
func (c *Client) ListOwnListings(ctx context.Context) ([]map[string]any, error) {
	where := fmt.Sprintf("results.%s=%s", codec.DiscriminatorField, codec.ListingType)

	raw, err := c.SecureCall(ctx, EndpointListAssets, map[string]any{"where": where})
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode own listings: %w", err)
	}
	return records, nil
}

// CreateListingAsset creates a structured listing record under the given name
func (c *Client) CreateListingAsset(ctx context.Context, name string, fields []codec.AssetField) (models.Receipt, error) {
	raw, err := c.SecureCall(ctx, EndpointCreateAsset, map[string]any{
		"name":   name,
		"format": "JSON",
		"json":   fields,
	})
	if err != nil {
		return models.Receipt{}, err
	}
	return decodeReceipt(raw)
}

// UpdateListingAsset updates the mutable fields of an existing listing
func (c *Client) UpdateListingAsset(ctx context.Context, name string, fields map[string]string) (models.Receipt, error) {
	params := map[string]any{
		"name":   name,
		"format": "basic",
	}
	for k, v := range fields {
		params[k] = v
	}

	raw, err := c.SecureCall(ctx, EndpointUpdateAsset, params)
	if err != nil {
		return models.Receipt{}, err
	}
	return decodeReceipt(raw)
}

// CreateRawRecord creates a raw record with an opaque string payload
func (c *Client) CreateRawRecord(ctx context.Context, name, data string) (models.Receipt, error) {
	raw, err := c.SecureCall(ctx, EndpointCreateAsset, map[string]any{
		"name":   name,
		"format": "raw",
		"data":   data,
	})
	if err != nil {
		return models.Receipt{}, err
	}
	return decodeReceipt(raw)
}

// UpdateRawRecord replaces the payload of an existing raw record
func (c *Client) UpdateRawRecord(ctx context.Context, name, data string) (models.Receipt, error) {
	raw, err := c.SecureCall(ctx, EndpointUpdateAsset, map[string]any{
		"name":   name,
		"format": "raw",
		"data":   data,
	})
	if err != nil {
		return models.Receipt{}, err
	}
	return decodeReceipt(raw)
}

// GetRawRecord fetches a raw record's payload string by name
func (c *Client) GetRawRecord(ctx context.Context, name string) (string, error) {
	raw, err := c.Call(ctx, EndpointGetAsset, map[string]any{"name": name})
	if err != nil {
		return "", err
	}

	var record struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return "", fmt.Errorf("failed to decode raw record %q: %w", name, err)
	}
	return record.Data, nil
}

// ProfileStatus resolves the authenticated identity of the session
func (c *Client) ProfileStatus(ctx context.Context) (models.Profile, error) {
	raw, err := c.SecureCall(ctx, EndpointProfileStatus, map[string]any{})
	if err != nil {
		return models.Profile{}, err
	}

	var profile models.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return models.Profile{}, fmt.Errorf("failed to decode profile status: %w", err)
	}
	return profile, nil
}

func decodeReceipt(raw []byte) (models.Receipt, error) {
	var r models.Receipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.Receipt{}, fmt.Errorf("failed to decode receipt: %w", err)
	}
	return r, nil
}
