// Package nexus is the ledger RPC client. In the hosted ancestor of this
// service the wallet injected the RPC bridge; standalone we speak to a
// Nexus node's HTTP API directly. Call is unauthenticated and read-only,
// SecureCall carries the session credentials and mutates chain state.
package nexus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/distordia/nexgo/internal/domain/types"
	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/metrics"
)

// API endpoints consumed by this module
const (
	EndpointCreateAsset   = "assets/create/asset"
	EndpointUpdateAsset   = "assets/update/asset"
	EndpointGetAsset      = "assets/get/asset"
	EndpointListAssets    = "assets/list/asset"
	EndpointListRegister  = "register/list/assets:asset"
	EndpointListRawAssets = "register/list/assets:raw"
	EndpointProfileStatus = "profiles/status/master"
)

type Config struct {
	NodeURL     string
	Session     string
	Pin         string
	CallTimeout time.Duration
}

type Client struct {
	nodeURL string
	session string
	pin     string
	timeout time.Duration

	http *http.Client
	log  logger.Logger
}

func New(cfg Config, log logger.Logger) *Client {
	return &Client{
		nodeURL: strings.TrimRight(cfg.NodeURL, "/"),
		session: cfg.Session,
		pin:     cfg.Pin,
		timeout: cfg.CallTimeout,
		http:    &http.Client{},
		log:     log,
	}
}

// apiError is the node's error envelope
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("ledger error %d: %s", e.Code, e.Message)
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *apiError       `json:"error"`
}

// Call performs an unauthenticated, read-only API call.
func (c *Client) Call(ctx context.Context, endpoint string, params map[string]any) (json.RawMessage, error) {
	return c.do(ctx, endpoint, params)
}

// SecureCall performs an authenticated call with session credentials merged
// into the parameters. Used for every mutating operation.
func (c *Client) SecureCall(ctx context.Context, endpoint string, params map[string]any) (json.RawMessage, error) {
	merged := make(map[string]any, len(params)+2)
	for k, v := range params {
		merged[k] = v
	}
	merged["session"] = c.session
	merged["pin"] = c.pin

	return c.do(ctx, endpoint, merged)
}

func (c *Client) do(ctx context.Context, endpoint string, params map[string]any) (json.RawMessage, error) {
	const op = "nexus.Client.do"

	if params == nil {
		params = map[string]any{}
	}

	// The call timeout is an explicit configuration point: a request that
	// never resolves must not leave a pending flag set forever.
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode params: %w", op, err)
	}

	start := time.Now()
	result, err := c.post(ctx, endpoint, body)
	metrics.RecordLedgerCall(endpoint, err, time.Since(start))

	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionLedgerCallFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %s: %w", op, endpoint, err))
	}

	return result, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/%s", c.nodeURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if env.Error != nil {
		if isNotFound(env.Error) {
			return nil, fmt.Errorf("%s: %w", env.Error.Message, types.ErrRecordNotFound)
		}
		return nil, env.Error
	}

	return env.Result, nil
}

// isNotFound recognizes the node's "no such register/name" error family
func isNotFound(e *apiError) bool {
	switch e.Code {
	case -101, -106, -125:
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "unknown name")
}

// IsNotFound reports whether err denotes a missing record
func IsNotFound(err error) bool {
	return errors.Is(err, types.ErrRecordNotFound)
}
