package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout bounds a single JSON-RPC round trip.
const DefaultTimeout = 30 * time.Second

// ClientConfig configures a Client.
type ClientConfig struct {
	URL     string        // endpoint, http or https
	Timeout time.Duration // per-call guard; DefaultTimeout when zero
}

// Client issues read-only JSON-RPC 2.0 calls over HTTP. Each call is a single
// attempt bounded by the configured timeout.
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        cfg.URL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// URL returns the endpoint the client talks to.
func (c *Client) URL() string { return c.url }

// Call executes method and returns the raw "result" payload.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}

	body, err := json.Marshal(Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, &CallError{Method: method, Type: ErrorTypeOther, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.doRequest(ctx, method, body)
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (c *Client) doRequest(ctx context.Context, method string, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &CallError{Method: method, Type: ErrorTypeOther, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &CallError{Method: method, Type: classifyTransport(err), Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, &CallError{
			Method:     method,
			Type:       classifyStatus(httpResp.StatusCode),
			StatusCode: httpResp.StatusCode,
			Err:        errors.Errorf("HTTP %d", httpResp.StatusCode),
		}
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &CallError{Method: method, Type: classifyTransport(err), Err: err}
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &CallError{Method: method, Type: ErrorTypeParseError, Err: errors.WithMessage(err, "invalid JSON response")}
	}

	if resp.Error != nil {
		return nil, &CallError{Method: method, Type: ErrorTypeRPC, Err: resp.Error}
	}

	return &resp, nil
}

func classifyTransport(err error) ErrorType {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTypeTimeout
	}
	return ErrorTypeOther
}

func classifyStatus(code int) ErrorType {
	switch {
	case code == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case code >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeOther
	}
}
