package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/common"
)

// maxErrorBody bounds how much of a failed response is kept for diagnosis.
const maxErrorBody = 4 << 10

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// StatusError carries a provider's non-2xx response. It is logged, never
// returned to clients.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded %d: %s", e.Provider, e.StatusCode, e.Body)
}

// newCircuitBreaker trips after five consecutive failures and probes again
// after 30 seconds.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
}

// doRequest executes req once through the circuit breaker. Any transport
// failure or non-2xx status is returned as an upstream AppError; there are no
// retries.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	provider string,
	req *http.Request,
) (*http.Response, error) {
	if client == nil {
		return nil, common.NewUpstreamError(provider+" request failed", errNoHTTPClient)
	}

	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			var uerr *url.Error
			if errors.As(execErr, &uerr) {
				uerr.URL = redactURL(uerr.URL)
			}
			return nil, execErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			defer resp.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return nil, &StatusError{
				Provider:   provider,
				StatusCode: resp.StatusCode,
				Body:       strings.TrimSpace(string(body)),
			}
		}

		return resp, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, common.NewUpstreamError(provider+" unavailable", fmt.Errorf("%w: %v", errCircuitOpen, err))
		}
		return nil, common.NewUpstreamError(provider+" request failed", err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, common.NewUpstreamError(provider+" request failed", fmt.Errorf("unexpected result type from circuit breaker"))
	}
	return resp, nil
}

// getJSON issues a GET to base+path?values and decodes the JSON body into out.
func getJSON(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	provider string,
	endpoint string,
	values url.Values,
	out any,
) error {
	u := endpoint
	if len(values) > 0 {
		u = fmt.Sprintf("%s?%s", endpoint, values.Encode())
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return common.NewUpstreamError(provider+" request failed", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doRequest(ctx, client, cb, provider, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return common.NewUpstreamError(provider+" returned an unreadable response", err)
	}
	return nil
}

// joinURL appends path to base without doubling slashes.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// redactURL blanks credential query parameters so URLs can be logged.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, k := range []string{"apiKey", "key"} {
		if q.Has(k) {
			q.Set(k, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
