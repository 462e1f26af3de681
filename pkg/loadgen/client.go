package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-seedgen/pkg/contract"
)

// ErrUnexpectedResponse is returned when the service answers with a status,
// content type or body the client does not accept.
var ErrUnexpectedResponse = errors.New("loadgen: unexpected response")

// Request paths of the store service.
const (
	PathOrders          = "/orders"
	PathHighestSpenders = "/orders/reports/highest-spenders"
	PathBestSellers     = "/orders/reports/best-sellers"
)

const defaultTimeout = 10 * time.Second

// OrderLine is one item of an order request.
type OrderLine struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// OrderRequest is the body of POST /orders.
type OrderRequest struct {
	UserID int         `json:"user_id"`
	Items  []OrderLine `json:"items"`
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithContract validates request and response payloads against the service
// contract.
func WithContract(doc *contract.Contract) ClientOption {
	return func(c *Client) {
		c.contract = doc
	}
}

// Client calls the three endpoints of the store service.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	contract *contract.Contract
}

// NewClient returns a client for the service rooted at baseURL.
func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: defaultTimeout,
	}
	for _, option := range options {
		if option != nil {
			option(c)
		}
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateOrder posts an order and returns the raw order id from the 201
// response.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (json.RawMessage, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("loadgen: encode order: %w", err)
	}
	if c.contract != nil {
		if err := c.contract.ValidateRequest(contract.OpCreateOrder, payload); err != nil {
			return nil, err
		}
	}

	status, body, err := c.do(ctx, http.MethodPost, PathOrders, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, unexpected(http.MethodPost, PathOrders, status, body)
	}
	if err := c.checkResponse(contract.OpCreateOrder, status, body); err != nil {
		return nil, err
	}

	var created struct {
		OrderID json.RawMessage `json:"order_id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("%w: POST %s: invalid JSON: %v", ErrUnexpectedResponse, PathOrders, err)
	}
	if len(created.OrderID) == 0 || string(created.OrderID) == "null" {
		return nil, fmt.Errorf("%w: POST %s: no order_id returned", ErrUnexpectedResponse, PathOrders)
	}
	return created.OrderID, nil
}

// HighestSpenders fetches the highest spenders report rows.
func (c *Client) HighestSpenders(ctx context.Context) ([]json.RawMessage, error) {
	return c.report(ctx, PathHighestSpenders, contract.OpGetHighestSpenders)
}

// BestSellers fetches the best sellers report rows.
func (c *Client) BestSellers(ctx context.Context) ([]json.RawMessage, error) {
	return c.report(ctx, PathBestSellers, contract.OpGetBestSellers)
}

func (c *Client) report(ctx context.Context, path, opID string) ([]json.RawMessage, error) {
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, unexpected(http.MethodGet, path, status, body)
	}
	if err := c.checkResponse(opID, status, body); err != nil {
		return nil, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: GET %s: result is not a list: %s", ErrUnexpectedResponse, path, snippet(body))
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}
	return rows, nil
}

func (c *Client) checkResponse(opID string, status int, body []byte) error {
	if c.contract == nil {
		return nil
	}
	if err := c.contract.ValidateResponse(opID, status, body); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("loadgen: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("loadgen: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("loadgen: read %s %s: %w", method, path, err)
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return resp.StatusCode, body, fmt.Errorf("%w: %s %s: status %d without JSON body: %s",
			ErrUnexpectedResponse, method, path, resp.StatusCode, snippet(body))
	}
	return resp.StatusCode, body, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

func unexpected(method, path string, status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	message := "Unknown error"
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnexpectedResponse, method, path, status, message)
}

func snippet(body []byte) string {
	const limit = 120
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
