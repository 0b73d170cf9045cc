package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/corebank/ftreserve/internal/config"
	"github.com/corebank/ftreserve/internal/metrics"
	"github.com/corebank/ftreserve/internal/models"
)

const (
	listPath    = "/reservation.asp"
	confirmPath = "/reservation_confirmation.asp"

	maxResponseBytes = 1 << 20
)

// HTTPClient abstracts over the FT API transport. Configuration is injected
// once at construction; nothing is read from ambient process state per call.
type HTTPClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
	logger     *slog.Logger
	baseURL    string
	apiToken   string
}

// NewHTTPClient creates a gateway client for the external FT reservation API
func NewHTTPClient(cfg *config.GatewayConfig, m *metrics.Metrics, logger *slog.Logger) *HTTPClient {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		// The legacy endpoint may run on a self-signed certificate. Never
		// relax verification silently.
		logger.Warn("gateway TLS certificate verification disabled by configuration",
			"base_url", cfg.BaseURL,
		)
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
		}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "ft-gateway",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("gateway circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &HTTPClient{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		breaker:  breaker,
		metrics:  m,
		logger:   logger,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		apiToken: cfg.APIToken,
	}
}

// ListReservations queries the external overview for one account. Reads are
// safe to repeat, so every network fault maps to a transport error.
func (c *HTTPClient) ListReservations(ctx context.Context, externalAccountID string, currency models.Currency) ([]ReservationRecord, error) {
	query := url.Values{}
	query.Set("key", c.apiToken)
	query.Set("account", externalAccountID)
	endpoint := c.baseURL + listPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, c.fail("list", &Error{
			Outcome: OutcomeTransportError,
			Message: "failed to build request",
			Err:     err,
		})
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, c.fail("list", &Error{
			Outcome: OutcomeTransportError,
			Message: "list request failed",
			Err:     err,
		})
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do on close failure

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.fail("list", &Error{
			Outcome: OutcomeTransportError,
			Message: "failed to read response body",
			Err:     err,
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail("list", &Error{
			Outcome: OutcomeRemoteRejected,
			Message: fmt.Sprintf("remote returned status %d: %s", resp.StatusCode, trimBody(body)),
		})
	}

	records, err := parseOverview(body, externalAccountID, currency)
	if err != nil {
		return nil, c.fail("list", &Error{
			Outcome: OutcomeMalformedResponse,
			Message: "failed to parse reservations overview",
			Err:     err,
		})
	}

	c.metrics.RecordGatewayRequest("list", "ok")
	return records, nil
}

// ConfirmReservation submits the settlement confirmation. The remote endpoint
// is not idempotent: a timeout or dropped connection after the request was
// sent maps to OutcomeAmbiguous and must not be retried here.
func (c *HTTPClient) ConfirmReservation(ctx context.Context, confirm ConfirmRequest) (*ConfirmResult, error) {
	payload := confirmationEnvelope{
		Confirmation: confirmationBody{
			Details: confirmationDetails{
				AuthToken:     c.apiToken,
				ResCode:       confirm.ReservationCode,
				DateTime:      confirm.Timestamp.UTC().Format(time.RFC3339),
				AccountNumber: confirm.AccountNumber,
				Amount:        confirm.Amount.String(),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, c.fail("confirm", &Error{
			Outcome: OutcomeTransportError,
			Message: "failed to marshal confirmation payload",
			Err:     err,
		})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+confirmPath, bytes.NewReader(body))
	if err != nil {
		return nil, c.fail("confirm", &Error{
			Outcome: OutcomeTransportError,
			Message: "failed to build request",
			Err:     err,
		})
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, c.fail("confirm", classifyConfirmError(err))
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do on close failure

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		// Status line arrived but the body did not; the remote side may
		// have processed the confirmation.
		return nil, c.fail("confirm", &Error{
			Outcome: OutcomeAmbiguous,
			Message: "failed to read confirmation response",
			Err:     err,
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail("confirm", &Error{
			Outcome: OutcomeRemoteRejected,
			Message: fmt.Sprintf("remote rejected confirmation with status %d: %s", resp.StatusCode, trimBody(respBody)),
		})
	}

	c.metrics.RecordGatewayRequest("confirm", "ok")
	return &ConfirmResult{
		StatusCode: resp.StatusCode,
		RawBody:    string(respBody),
	}, nil
}

// do routes the request through the circuit breaker. An open breaker means
// no request was issued, which is a definite transport failure.
func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	return result.(*http.Response), nil
}

func (c *HTTPClient) fail(operation string, gwErr *Error) *Error {
	c.metrics.RecordGatewayRequest(operation, string(gwErr.Outcome))
	c.logger.Warn("gateway call failed",
		"operation", operation,
		"outcome", string(gwErr.Outcome),
		"error", gwErr.Error(),
	)
	return gwErr
}

// classifyConfirmError separates faults where the request definitively never
// reached the remote side from those where it may have. Only two cases are
// definite: an open breaker and a dial failure, since neither produces a
// connection to write to. Anything after that point, a timeout or a broken
// connection included, leaves the remote state unknown.
func classifyConfirmError(err error) *Error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Error{
			Outcome: OutcomeTransportError,
			Message: "circuit breaker open, request not sent",
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return &Error{
			Outcome: OutcomeTransportError,
			Message: "could not connect, request not sent",
			Err:     err,
		}
	}

	var netErr interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{
			Outcome: OutcomeAmbiguous,
			Message: "confirmation timed out, remote state unknown",
			Err:     err,
		}
	}

	return &Error{
		Outcome: OutcomeAmbiguous,
		Message: "connection failed mid-request, remote state unknown",
		Err:     err,
	}
}

func trimBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		return s[:256] + "...(truncated)"
	}
	return s
}
