package approval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/account_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/account_ledger/internal/core/ports/services"
	"github.com/SscSPs/account_ledger/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

const (
	statusSuccess       = "success"
	maxResponseBodySize = 1 << 20
	defaultTimeout      = 5 * time.Second
)

var errUnexpectedStatus = errors.New("unexpected approval response status")

type approvalResponse struct {
	Status string `json:"status"`
}

// HTTPGate asks a remote endpoint to approve each transfer. The endpoint is
// expected to answer {"status": "success"} to approve; every other outcome
// rejects the transfer. Calls go through a circuit breaker so a dead
// endpoint fails fast.
type HTTPGate struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// HTTPGateOption is a functional option for configuring the HTTP gate
type HTTPGateOption func(*HTTPGate)

// WithHTTPClient replaces the default client. Its Timeout bounds each call.
func WithHTTPClient(client *http.Client) HTTPGateOption {
	return func(g *HTTPGate) {
		if client != nil {
			g.client = client
		}
	}
}

// WithBreakerSettings replaces the default circuit breaker settings.
func WithBreakerSettings(settings gobreaker.Settings) HTTPGateOption {
	return func(g *HTTPGate) {
		g.breaker = gobreaker.NewCircuitBreaker(settings)
	}
}

// DefaultBreakerSettings trips after 5 consecutive transport failures and
// lets a trial request through after 30 seconds.
func DefaultBreakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "transfer-approval",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Rejections and callers hanging up say nothing about endpoint health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errUnexpectedStatus) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("Approval circuit breaker changed state",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
}

// NewHTTPGate creates an approval gate calling approvalURL with the given timeout.
func NewHTTPGate(approvalURL string, timeout time.Duration, options ...HTTPGateOption) *HTTPGate {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	g := &HTTPGate{
		url:     approvalURL,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(DefaultBreakerSettings()),
	}

	for _, option := range options {
		option(g)
	}

	return g
}

var _ portssvc.TransferApprovalSvc = (*HTTPGate)(nil)

// Approve reports whether the remote endpoint explicitly approved the transfer.
func (g *HTTPGate) Approve(ctx context.Context, from domain.Account, to domain.Account, amount decimal.Decimal) bool {
	return g.Decide(ctx, from, to, amount) == DecisionApproved
}

// Decide queries the remote endpoint and classifies its answer.
func (g *HTTPGate) Decide(ctx context.Context, from domain.Account, to domain.Account, amount decimal.Decimal) Decision {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("from_account", from.Number),
		slog.String("to_account", to.Number),
	)

	if err := ctx.Err(); err != nil {
		logger.Warn("Approval skipped, request context already done", slog.String("error", err.Error()))
		return DecisionUnreachable
	}

	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, g.request(ctx, from, to, amount)
	})

	switch {
	case err == nil:
		logger.Debug("Transfer approved")
		return DecisionApproved
	case errors.Is(err, errUnexpectedStatus):
		logger.Warn("Transfer rejected by approval endpoint", slog.String("reason", err.Error()))
		return DecisionRejected
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		logger.Warn("Approval endpoint unavailable, circuit breaker open")
		return DecisionUnreachable
	default:
		logger.Error("Approval request failed", slog.String("error", err.Error()))
		return DecisionUnreachable
	}
}

func (g *HTTPGate) request(ctx context.Context, from domain.Account, to domain.Account, amount decimal.Decimal) error {
	if g.url == "" {
		return fmt.Errorf("%w: approval URL not configured", errUnexpectedStatus)
	}

	reqURL, err := url.Parse(g.url)
	if err != nil {
		return fmt.Errorf("invalid approval URL: %w", err)
	}
	q := reqURL.Query()
	q.Set("from", from.Number)
	q.Set("to", to.Number)
	q.Set("amount", amount.String())
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build approval request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID, ok := middleware.GetRequestIDFromCtx(ctx); ok {
		req.Header.Set(middleware.RequestIDHeader, requestID)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("approval request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("approval endpoint returned %s", resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: http %s", errUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("failed to read approval response: %w", err)
	}

	var decoded approvalResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("%w: malformed body: %v", errUnexpectedStatus, err)
	}
	if decoded.Status != statusSuccess {
		return fmt.Errorf("%w: %q", errUnexpectedStatus, decoded.Status)
	}
	return nil
}
