package odoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/etc-team/bestellung/pkg/logger"
)

const userAgent = "Bestellung-App/1.0"

var ErrNotConfigured = errors.New("odoo: ODOO_BASE_URL and ODOO_API_KEY must be set")

// APIError is a non-2xx answer from Odoo.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Odoo API error %d: %s", e.Status, e.Body)
}

// UserMessage is the text shown to the browser for a failed call: the
// innermost error, without the prefixes added on the way up.
func UserMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

type Config struct {
	BaseURL  string
	APIKey   string
	Database string
	Timeout  time.Duration
}

// Client talks to the Odoo JSON-2 API.
type Client struct {
	client     *resty.Client
	configured bool
}

func NewClient(cfg Config) *Client {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetLogger(zap.S()).
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetHeader("Authorization", "bearer "+cfg.APIKey).
		SetHeader("User-Agent", userAgent)
	if cfg.Database != "" {
		c.SetHeader("X-Odoo-Database", cfg.Database)
	}

	return &Client{
		client:     c,
		configured: cfg.BaseURL != "" && cfg.APIKey != "",
	}
}

// Domain is an Odoo search domain.
type Domain []any

// Cond builds one domain leaf, e.g. Cond("sale_ok", "=", true).
func Cond(field, op string, value any) []any {
	return []any{field, op, value}
}

type SearchReadParams struct {
	Domain  Domain         `json:"domain"`
	Fields  []string       `json:"fields,omitempty"`
	Limit   int            `json:"limit,omitempty"`
	Offset  int            `json:"offset,omitempty"`
	Order   string         `json:"order,omitempty"`
	Context map[string]any `json:"context"`
}

type searchCountParams struct {
	Domain  Domain         `json:"domain"`
	Context map[string]any `json:"context"`
}

// SearchRead decodes the matching records of model into out, which must be
// a pointer to a slice.
func (c *Client) SearchRead(ctx context.Context, model string, params SearchReadParams, out any) error {
	if params.Domain == nil {
		params.Domain = Domain{}
	}
	if params.Context == nil {
		params.Context = map[string]any{}
	}
	body, err := c.call(ctx, model, "search_read", params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		logger.Log(ctx).Errorf("odoo: failed parsing %s search_read response, %v", model, err)
		return fmt.Errorf("odoo: can't decode %s records, %w", model, err)
	}
	return nil
}

// SearchCount returns the number of model records matching domain.
func (c *Client) SearchCount(ctx context.Context, model string, domain Domain) (int, error) {
	if domain == nil {
		domain = Domain{}
	}
	body, err := c.call(ctx, model, "search_count", searchCountParams{Domain: domain, Context: map[string]any{}})
	if err != nil {
		return 0, err
	}
	var n int
	if err := json.Unmarshal(body, &n); err != nil {
		logger.Log(ctx).Errorf("odoo: failed parsing %s search_count response, %v", model, err)
		return 0, fmt.Errorf("odoo: can't decode %s count, %w", model, err)
	}
	return n, nil
}

func (c *Client) call(ctx context.Context, model, method string, params any) ([]byte, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(params).
		Post("/json/2/" + model + "/" + method)
	if err != nil {
		logger.Log(ctx).Errorf("odoo: failed sending %s/%s request, %v", model, method, err)
		return nil, fmt.Errorf("odoo: %s/%s request failed, %w", model, method, err)
	}
	if !resp.IsSuccess() {
		logger.Log(ctx).Warnf("odoo: %s/%s answered %d", model, method, resp.StatusCode())
		return nil, &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}
	return resp.Body(), nil
}
