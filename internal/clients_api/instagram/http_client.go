package instagram

// Base HTTP client for the Instagram private API.
// Acts as transport layer only: rate limiting, circuit breaking, retries
// and error classification. Endpoint wrappers live in feed.go / social.go.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"insta-pilot/internal/infra/log"
	"insta-pilot/internal/infra/retry"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultAPI is the base URL of the private API surface.
	DefaultAPI = "https://i.instagram.com/api/v1"

	defaultUserAgent = "Instagram 269.0.0.18.75 (iPhone13,2; iOS 16_0; en_US; en-US; scale=3.00; 1170x2532)"
)

// Client holds everything needed for API calls: base URL, HTTP client,
// session token, rate limiter and circuit breaker.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	username        string
	password        string
	sessionFile     string
	sessionToken    string
	accountID       string
	rateLimiter     *rate.Limiter
	circuitBreaker  *gobreaker.CircuitBreaker
	maxResponseSize int64
	retryOpts       retry.Options
}

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL        string
	Username       string
	Password       string
	SessionFile    string
	RequestTimeout time.Duration
	MaxRetries     int
}

// NewClient returns a Client ready to use. The client is unauthenticated
// until Login or RestoreSession succeeds.
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultAPI
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	// Deliberately slow: 1 request per 2 seconds, burst of 3. The remote
	// side profiles request cadence, so the limiter floor stays low even
	// though the cooldown gate spaces consequential actions much wider.
	rateLimiter := rate.NewLimiter(rate.Every(2*time.Second), 3)

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "InstagramAPI",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		baseURL:         baseURL,
		username:        opts.Username,
		password:        opts.Password,
		sessionFile:     opts.SessionFile,
		rateLimiter:     rateLimiter,
		circuitBreaker:  circuitBreaker,
		maxResponseSize: 10 * 1024 * 1024,
		retryOpts: retry.Options{
			MaxRetries: maxRetries,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   30 * time.Second,
		},
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DisableKeepAlives: false,
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
			},
		},
	}
}

// SetSessionToken installs a session token for authorized requests.
func (c *Client) SetSessionToken(token string) {
	c.sessionToken = token
}

// SessionToken returns the current session token, empty when logged out.
func (c *Client) SessionToken() string {
	return c.sessionToken
}

// AccountID returns the id of the logged-in account, empty when logged out.
func (c *Client) AccountID() string {
	return c.accountID
}

// MakeRequest performs one API call through the rate limiter, circuit
// breaker and retry policy. body may be nil for GET requests.
func (c *Client) MakeRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	requestID := log.GenerateRequestID()
	startTime := time.Now()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	var respBody []byte
	var err error

	call := func() error {
		b, reqErr := c.doRequest(ctx, requestID, method, endpoint, body, startTime)
		if reqErr != nil {
			return reqErr
		}
		respBody = b
		return nil
	}

	if c.circuitBreaker != nil {
		_, err = c.circuitBreaker.Execute(func() (interface{}, error) {
			if reqErr := retry.Do(ctx, c.retryOpts, call); reqErr != nil {
				return nil, reqErr
			}
			return respBody, nil
		})
	} else {
		err = retry.Do(ctx, c.retryOpts, call)
	}
	if err != nil {
		return nil, classifyError(err)
	}

	duration := time.Since(startTime).Milliseconds()
	log.LogResponse(requestID, 200, duration, zap.String("endpoint", endpoint))

	return respBody, nil
}

// doRequest performs a single HTTP round trip.
func (c *Client) doRequest(ctx context.Context, requestID, method, endpoint string, body interface{}, startTime time.Time) ([]byte, error) {
	var reqBody io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)

	log.LogRequest(requestID, method, endpoint, zap.String("url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		duration := time.Since(startTime).Milliseconds()
		log.LogResponse(requestID, 0, duration, zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	limitedReader := io.LimitReader(resp.Body, c.maxResponseSize)
	respBody, err := io.ReadAll(limitedReader)
	if err != nil {
		duration := time.Since(startTime).Milliseconds()
		log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	duration := time.Since(startTime).Milliseconds()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.String("error", "API error response received"))
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.String("status", "success"))

	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}
}

// classifyError maps transport errors onto the package error taxonomy:
// 401/403 responses mean the session is invalid.
func classifyError(err error) error {
	var he *retry.HTTPError
	if errors.As(err, &he) {
		switch he.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Reason: "session rejected", Err: he}
		}
	}
	return err
}
