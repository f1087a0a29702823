package codec

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
)

const (
	// RatingType is the discriminator value for rating collections
	RatingType = "nexgo-rating"

	// RatingAssetName is the one well-known record name per passenger identity
	RatingAssetName = "nexgo-ratings"

	// MaxRatingPayloadBytes is the soft ceiling for an encoded collection.
	// The codec does not enforce it, callers check before writing.
	MaxRatingPayloadBytes = 1024
)

type ratingPayload struct {
	Type    string                     `json:"distordia-type"`
	Ratings map[string]json.RawMessage `json:"ratings"`
}

type ratingEntryWire struct {
	Score *float64 `json:"score"`
	Avoid bool     `json:"avoid"`
}

// EncodeRatingCollection serializes a collection to the compact wire string.
func EncodeRatingCollection(c models.RatingCollection) (string, error) {
	ratings := make(map[string]json.RawMessage, len(c))
	for genesis, entry := range c {
		raw, err := json.Marshal(entry)
		if err != nil {
			return "", fmt.Errorf("failed to encode rating entry: %w", err)
		}
		ratings[genesis] = raw
	}

	data, err := json.Marshal(ratingPayload{Type: RatingType, Ratings: ratings})
	if err != nil {
		return "", fmt.Errorf("failed to encode rating collection: %w", err)
	}
	return string(data), nil
}

// CheckRatingPayloadSize reports ErrPayloadTooLarge when the encoded
// collection exceeds the documented ceiling.
func CheckRatingPayloadSize(encoded string) error {
	if len(encoded) > MaxRatingPayloadBytes {
		return fmt.Errorf("%d bytes: %w", len(encoded), types.ErrPayloadTooLarge)
	}
	return nil
}

// DecodeRatingCollection parses a raw record payload into a collection.
// Invalid JSON or a foreign discriminator returns an error the caller is
// expected to skip on. Individual malformed entries are tolerated: a
// non-integer or absent score decodes as 0 (outside the valid range, so
// aggregation ignores it) while the avoid flag is still preserved.
func DecodeRatingCollection(data string) (models.RatingCollection, error) {
	var payload ratingPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode rating payload: %w", err)
	}
	if payload.Type != RatingType {
		return nil, fmt.Errorf("%q: %w", payload.Type, types.ErrForeignRecord)
	}

	out := make(models.RatingCollection, len(payload.Ratings))
	for genesis, raw := range payload.Ratings {
		var wire ratingEntryWire
		if err := json.Unmarshal(raw, &wire); err != nil {
			// foreign entry shape, keep the bucket with no usable values
			out[genesis] = models.RatingEntry{}
			continue
		}

		entry := models.RatingEntry{Avoid: wire.Avoid}
		if wire.Score != nil && *wire.Score == math.Trunc(*wire.Score) {
			entry.Score = int(*wire.Score)
		}
		out[genesis] = entry
	}

	return out, nil
}
