// Package api is a typed wrapper over the poker backend's REST endpoints.
// Every call issues exactly one request; nothing is retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"poker-front/internal/poker"
)

const maxResponseBytes = 1 << 20

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a client for the backend at baseURL. A nil httpClient gets a
// client with a 10s timeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("backend url %q must include scheme and host", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: parsed, http: httpClient}, nil
}

// BaseURL returns a copy of the backend origin.
func (c *Client) BaseURL() *url.URL {
	copied := *c.baseURL
	return &copied
}

type TablesResult struct {
	Tables []poker.TableSummary `json:"tables"`
}

// JoinResult reports the game-level outcome of a join. A 2xx response does
// not imply Success.
type JoinResult struct {
	Success bool
	Message string
	Seat    *int
}

type JoinRequest struct {
	TableID string `json:"table_id"`
	UserID  string `json:"user_id"`
	Deposit int64  `json:"deposit,omitempty"`
	SeatIdx *int   `json:"seat_idx,omitempty"`
}

type Balance struct {
	Balance float64 `json:"balance"`
}

type AccountOp string

const (
	AccountDeposit  AccountOp = "deposit"
	AccountWithdraw AccountOp = "withdraw"
	AccountHistory  AccountOp = "history"
)

func (op AccountOp) Valid() bool {
	switch op {
	case AccountDeposit, AccountWithdraw, AccountHistory:
		return true
	default:
		return false
	}
}

func (c *Client) ListTables(ctx context.Context, level string) (TablesResult, error) {
	var result TablesResult
	query := url.Values{}
	query.Set("level", level)
	if err := c.doJSON(ctx, http.MethodGet, "/api/tables", query, nil, &result); err != nil {
		return TablesResult{}, err
	}
	if result.Tables == nil {
		result.Tables = []poker.TableSummary{}
	}
	return result, nil
}

func (c *Client) JoinTable(ctx context.Context, tableID, userID string) (JoinResult, error) {
	query := url.Values{}
	query.Set("table_id", tableID)
	query.Set("user_id", userID)
	return c.join(ctx, query, nil)
}

// JoinTableWithDeposit is the body form of join used when a buy-in deposit or
// a specific seat is requested.
func (c *Client) JoinTableWithDeposit(ctx context.Context, req JoinRequest) (JoinResult, error) {
	return c.join(ctx, nil, req)
}

func (c *Client) join(ctx context.Context, query url.Values, body any) (JoinResult, error) {
	var raw map[string]json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/api/join", query, body, &raw); err != nil {
		return JoinResult{}, err
	}
	return decodeJoinResult(raw)
}

func decodeJoinResult(raw map[string]json.RawMessage) (JoinResult, error) {
	var result JoinResult
	message := joinText(raw["message"])
	errMessage := joinText(raw["error"])
	if value, ok := raw["seat_idx"]; ok {
		var seat int
		if err := json.Unmarshal(value, &seat); err == nil {
			result.Seat = &seat
		}
	}
	if value, ok := raw["success"]; ok {
		if err := json.Unmarshal(value, &result.Success); err != nil {
			return JoinResult{}, &poker.ProtocolError{Op: "join", Err: fmt.Errorf("success must be a boolean: %w", err)}
		}
	} else {
		result.Success = errMessage == ""
	}
	result.Message = message
	if result.Message == "" {
		result.Message = errMessage
	}
	return result, nil
}

// joinText reads a message field. Anything other than a JSON string is kept
// as its raw JSON text so the reason still reaches the player.
func joinText(value json.RawMessage) string {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return ""
	}
	var text string
	if err := json.Unmarshal(value, &text); err == nil {
		return text
	}
	return string(value)
}

func (c *Client) GetBalance(ctx context.Context, userID string) (Balance, error) {
	var result Balance
	query := url.Values{}
	query.Set("user_id", userID)
	if err := c.doJSON(ctx, http.MethodGet, "/api/balance", query, nil, &result); err != nil {
		return Balance{}, err
	}
	return result, nil
}

func (c *Client) GetGameState(ctx context.Context, tableID string) (poker.GameState, error) {
	query := url.Values{}
	query.Set("table_id", tableID)
	body, err := c.do(ctx, http.MethodGet, "/api/game_state", query, nil)
	if err != nil {
		return poker.GameState{}, err
	}
	return poker.DecodeGameState(body)
}

// LeaveTable is best-effort; callers may ignore the error.
func (c *Client) LeaveTable(ctx context.Context, tableID, userID string) error {
	query := url.Values{}
	query.Set("table_id", tableID)
	query.Set("user_id", userID)
	_, err := c.do(ctx, http.MethodPost, "/api/leave", query, nil)
	return err
}

// Account runs one of the auxiliary account endpoints and returns the body as
// free text.
func (c *Client) Account(ctx context.Context, op AccountOp, userID string) (string, error) {
	if !op.Valid() {
		return "", fmt.Errorf("unknown account operation %q", op)
	}
	query := url.Values{}
	query.Set("user_id", userID)
	body, err := c.do(ctx, http.MethodGet, "/api/"+string(op), query, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, dest any) error {
	data, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &poker.ProtocolError{Op: method + " " + path, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &poker.NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &poker.NetworkError{Op: method + " " + path, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newRequestError(method, path, resp.StatusCode, data)
	}
	return data, nil
}

// RequestError is a non-2xx response.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Body    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

// UserMessage is the server-supplied error text, when there was one.
func (e *RequestError) UserMessage() string {
	return e.Message
}

func newRequestError(method, path string, status int, body []byte) *RequestError {
	reqErr := &RequestError{
		Method: method,
		Path:   path,
		Status: status,
		Body:   strings.TrimSpace(string(body)),
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			if text, ok := payload[key].(string); ok && text != "" {
				reqErr.Message = text
				break
			}
		}
	}
	return reqErr
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatBlinds renders "small/big" stakes for display.
func FormatBlinds(table poker.TableSummary) string {
	return formatAmount(table.SmallBlind) + "/" + formatAmount(table.BigBlind)
}

// FormatAmount renders a descriptive amount without trailing zeros.
func FormatAmount(value float64) string {
	return formatAmount(value)
}
