package atelier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bilosnizhka/bilosnizhka/internal/common"
	"github.com/bilosnizhka/bilosnizhka/internal/model"
	"github.com/bilosnizhka/bilosnizhka/internal/service"
)

// Client talks to the remote atelier API.
type Client struct {
	http      *resty.Client
	retryOpts service.RetryOptions
}

// NewClient creates an atelier API client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: atelier API base URL", common.ErrMissingConfig)
	}

	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second).
			SetHeader("Accept", "application/json"),
		retryOpts: service.RetryOptions{MaxAttempts: 3},
	}, nil
}

// GetModifiers fetches the modifier reference catalog, optionally scoped to
// one category. The endpoint historically returns either a bare array or a
// {"modifiers": [...]} wrapper; both shapes are decoded here, once.
func (c *Client) GetModifiers(ctx context.Context, categoryCode string) ([]model.PriceModifier, error) {
	var body []byte
	err := common.WithRetry(ctx, func() error {
		req := c.http.R().SetContext(ctx)
		if categoryCode != "" {
			req.SetQueryParam("category", categoryCode)
		}
		resp, err := req.Get("/v1/modifiers")
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrAPIConnection, err)
		}
		if resp.StatusCode() == http.StatusTooManyRequests {
			return common.ErrRateLimit
		}
		if resp.IsError() {
			return fmt.Errorf("%w: modifiers returned %d", common.ErrAPIConnection, resp.StatusCode())
		}
		body = resp.Body()
		return nil
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	records, err := decodeModifierPayload(body)
	if err != nil {
		return nil, err
	}

	modifiers := make([]model.PriceModifier, 0, len(records))
	for _, rec := range records {
		if err := checkShape(rec); err != nil {
			return nil, err
		}
		modifiers = append(modifiers, mapModifier(rec))
	}

	slog.Debug("Fetched modifier catalog",
		"count", len(modifiers),
		"category", categoryCode)
	return modifiers, nil
}

// decodeModifierPayload handles the two known response shapes: a bare JSON
// array, or an object wrapping the array under "modifiers".
func decodeModifierPayload(body []byte) ([]modifierRecord, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty modifiers response", common.ErrAPIDecode)
	}

	if trimmed[0] == '[' {
		var records []modifierRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrAPIDecode, err)
		}
		return records, nil
	}

	var envelope modifierEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAPIDecode, err)
	}
	return envelope.Modifiers, nil
}

// GetOrder fetches one persisted order and maps it to the domain model. The
// modifier catalog is fetched alongside so applied modifier codes resolve to
// full records.
func (c *Client) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	modifiers, err := c.GetModifiers(ctx, "")
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]model.PriceModifier, len(modifiers))
	for _, m := range modifiers {
		catalog[m.Code] = m
	}

	var rec orderRecord
	err = common.WithRetry(ctx, func() error {
		resp, err := c.http.R().SetContext(ctx).Get("/v1/orders/" + id)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrAPIConnection, err)
		}
		switch {
		case resp.StatusCode() == http.StatusNotFound:
			return &common.RetryableError{Err: common.ErrOrderNotFound, Retryable: false}
		case resp.StatusCode() == http.StatusTooManyRequests:
			return common.ErrRateLimit
		case resp.IsError():
			return fmt.Errorf("%w: order fetch returned %d", common.ErrAPIConnection, resp.StatusCode())
		}
		if err := json.Unmarshal(resp.Body(), &rec); err != nil {
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: %v", common.ErrAPIDecode, err),
				Retryable: false,
			}
		}
		return nil
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	if err := checkShape(rec); err != nil {
		return nil, err
	}
	return mapOrder(rec, catalog)
}

// SaveOrder persists an order through the remote API.
func (c *Client) SaveOrder(ctx context.Context, order *model.Order) error {
	rec := mapOrderRecord(order)
	return common.WithRetry(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(rec).
			Put("/v1/orders/" + order.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrAPIConnection, err)
		}
		if resp.StatusCode() == http.StatusTooManyRequests {
			return common.ErrRateLimit
		}
		if resp.IsError() {
			return fmt.Errorf("%w: order save returned %d", common.ErrAPIConnection, resp.StatusCode())
		}
		return nil
	}, c.retryOpts)
}

// GetClientPhone looks up a client's phone number for the confirmation
// warnings pass.
func (c *Client) GetClientPhone(ctx context.Context, clientID string) (string, error) {
	var rec clientRecord
	err := common.WithRetry(ctx, func() error {
		resp, err := c.http.R().SetContext(ctx).Get("/v1/clients/" + clientID)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrAPIConnection, err)
		}
		switch {
		case resp.StatusCode() == http.StatusNotFound:
			return &common.RetryableError{Err: common.ErrClientNotFound, Retryable: false}
		case resp.StatusCode() == http.StatusTooManyRequests:
			return common.ErrRateLimit
		case resp.IsError():
			return fmt.Errorf("%w: client fetch returned %d", common.ErrAPIConnection, resp.StatusCode())
		}
		if err := json.Unmarshal(resp.Body(), &rec); err != nil {
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: %v", common.ErrAPIDecode, err),
				Retryable: false,
			}
		}
		return nil
	}, c.retryOpts)
	if err != nil {
		return "", err
	}

	if err := checkShape(rec); err != nil {
		return "", err
	}
	return rec.Phone, nil
}
