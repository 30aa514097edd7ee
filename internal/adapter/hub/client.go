package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/config"
	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/port"
	"github.com/gsbenevides2/hassbridge/internal/util"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	OP_READ         = "read"
	OP_LIST         = "list"
	OP_WRITE        = "write"
	OP_CALL_SERVICE = "call_service"
)

// Client talks to the hub REST API. Every call gets its own timeout and
// is independent from any other call.
type Client struct {
	baseUrl string
	token   string
	timeout time.Duration
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewClient(cfg config.HubConfig, logger *zap.Logger) *Client {
	c := &Client{
		baseUrl: cfg.Url,
		token:   cfg.Token,
		timeout: cfg.Timeout(),
		http:    &http.Client{},
		logger:  util.ComponentLogger("hub", logger),
	}
	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker, c.logger)
	}
	return c
}

func newBreaker(cfg config.BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "hub",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.OpenTimeoutMillis) * time.Millisecond,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// a missing entity is a registry mismatch, not hub trouble
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrEntityNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("hub@breaker state change", zap.String("from", from.String()), zap.String("to", to.String()))
			breakerState.Set(float64(to))
		},
	})
}

func (c *Client) Read(ctx context.Context, entityId string) (domain.RawState, error) {
	var raw domain.RawState
	err := c.do(ctx, OP_READ, entityId, http.MethodGet, statePath(entityId), nil, &raw)
	if err != nil {
		return domain.RawState{}, err
	}
	if raw.EntityID == "" {
		raw.EntityID = entityId
	}
	return raw, nil
}

func (c *Client) ListStates(ctx context.Context) ([]domain.RawState, error) {
	var states []domain.RawState
	if err := c.do(ctx, OP_LIST, "", http.MethodGet, "/api/states", nil, &states); err != nil {
		return nil, err
	}
	return states, nil
}

func (c *Client) Write(ctx context.Context, entityId string, payload domain.WritePayload) error {
	switch p := payload.(type) {
	case domain.StatePayload:
		return c.do(ctx, OP_WRITE, entityId, http.MethodPost, statePath(entityId), p, nil)
	case domain.ServicePayload:
		return c.do(ctx, OP_CALL_SERVICE, entityId, http.MethodPost, servicePath(p.Domain, p.Service),
			serviceBody(entityId, p.Data), nil)
	}
	return fmt.Errorf("unsupported write payload %T", payload)
}

func (c *Client) CallService(ctx context.Context, serviceDomain string, service string, data map[string]any) error {
	return c.do(ctx, OP_CALL_SERVICE, "", http.MethodPost, servicePath(serviceDomain, service), serviceBody("", data), nil)
}

func (c *Client) do(ctx context.Context, op string, entityId string, method string, path string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	exec := func() (any, error) {
		return nil, c.roundTrip(ctx, op, entityId, method, path, body, out)
	}
	var err error
	if c.breaker != nil {
		_, err = c.breaker.Execute(exec)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &domain.TransportError{Op: op, EntityID: entityId, Err: err}
		}
	} else {
		_, err = exec()
	}
	observe(op, start, err)
	if err != nil {
		c.logger.Debug("hub@request failed", zap.String("op", op), zap.String("entity_id", entityId), zap.Error(err))
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, op string, entityId string, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", op, entityId, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, reader)
	if err != nil {
		return &domain.TransportError{Op: op, EntityID: entityId, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, EntityID: entityId, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && entityId != "" && op != OP_CALL_SERVICE {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s", domain.ErrEntityNotFound, entityId)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &domain.TransportError{
			Op:         op,
			EntityID:   entityId,
			StatusCode: resp.StatusCode,
			Err:        errors.New(string(bytes.TrimSpace(msg))),
		}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransportError{Op: op, EntityID: entityId, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statePath(entityId string) string {
	return "/api/states/" + url.PathEscape(entityId)
}

func servicePath(serviceDomain string, service string) string {
	return fmt.Sprintf("/api/services/%s/%s", url.PathEscape(serviceDomain), url.PathEscape(service))
}

func serviceBody(entityId string, data map[string]any) map[string]any {
	body := make(map[string]any, len(data)+1)
	for k, v := range data {
		body[k] = v
	}
	if entityId != "" {
		body["entity_id"] = entityId
	}
	return body
}

var _ port.HubClient = (*Client)(nil)
