package soundcloudclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.soundcloud.com"

// ErrForeignURL is returned when a request URL points outside the client's BaseURL.
var ErrForeignURL = errors.New("url does not match base url")

// Auth defines the interface for applying credentials to API requests
type Auth interface {
	Apply(req *http.Request)
}

// Logger receives structured key/value logs; *slog.Logger satisfies it
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ClientIDAuth authenticates public requests with the application's client_id query parameter
type ClientIDAuth struct {
	ClientID string
}

func (a ClientIDAuth) Apply(req *http.Request) {
	q := req.URL.Query()
	q.Set("client_id", a.ClientID)
	req.URL.RawQuery = q.Encode()
}

// OAuthAuth authenticates requests on behalf of a user
type OAuthAuth struct {
	Token string
}

func (a OAuthAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "OAuth "+a.Token)
}

// Client wraps http.Client with API-specific configuration
type Client struct {
	http.Client
	BaseURL      string
	Auth         Auth
	RetryBackoff time.Duration // Initial backoff duration for retries
	MaxAttempts  int           // Maximum number of attempts (0 = no retries)
	Logger       Logger        // Optional logger (nil = no logging)
	Serializer   *MappedJSONResponseSerializer
}

// ClientOption configures a Client created by NewClient.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithOAuthToken authenticates requests with a user token instead of the client id.
func WithOAuthToken(token string) ClientOption {
	return func(c *Client) {
		c.Auth = OAuthAuth{Token: token}
	}
}

// WithRetry enables retries on 429 and 5xx responses.
func WithRetry(maxAttempts int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.MaxAttempts = maxAttempts
		c.RetryBackoff = backoff
	}
}

// WithLogger sets the logger. *slog.Logger satisfies Logger.
func WithLogger(logger Logger) ClientOption {
	return func(c *Client) {
		c.Logger = logger
	}
}

// WithPathMapping replaces the key mapping applied to every response.
func WithPathMapping(mapping PathMapping) ClientOption {
	return func(c *Client) {
		c.Serializer = NewMappedJSONResponseSerializer(mapping)
	}
}

// WithSerializer replaces the response serializer.
func WithSerializer(s *MappedJSONResponseSerializer) ClientOption {
	return func(c *Client) {
		c.Serializer = s
	}
}

// NewClient creates a client authenticating with clientID and mapping responses
// through DefaultPathMapping.
func NewClient(clientID string, opts ...ClientOption) *Client {
	c := &Client{
		BaseURL:    defaultBaseURL,
		Auth:       ClientIDAuth{ClientID: clientID},
		Serializer: NewMappedJSONResponseSerializer(DefaultPathMapping),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do applies auth before performing the request with retry logic
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.Auth != nil {
		c.Auth.Apply(req)
	}
	return c.doWithRetry(req)
}

// retryState holds the state for a retry attempt
type retryState struct {
	lastResp *http.Response
	lastErr  error
}

// doWithRetry executes the request with exponential backoff retry logic
func (c *Client) doWithRetry(req *http.Request) (*http.Response, error) {
	maxAttempts := c.maxAttempts()
	backoff := c.backoff()
	state := &retryState{}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.Client.Do(req)

		if shouldReturnImmediately(resp, err) {
			return resp, nil
		}

		c.updateRetryState(state, resp, err)

		if shouldRetry(attempt, maxAttempts) {
			sleepDuration := getRetryDelay(state.lastResp, attempt, backoff)
			c.logRetryAttempt(req, attempt, maxAttempts, state.lastErr, sleepDuration, state.lastResp)
			if err := sleepContext(req.Context(), sleepDuration); err != nil {
				if state.lastResp != nil {
					c.closeBody(state.lastResp.Body)
				}
				return nil, err
			}
		}
	}

	return c.handleMaxRetriesExceeded(req, maxAttempts, state)
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// shouldReturnImmediately checks if we should return the response without retrying
func shouldReturnImmediately(resp *http.Response, err error) bool {
	if err != nil {
		return false
	}
	return !isRetryableStatus(resp.StatusCode)
}

// updateRetryState updates the retry state with the latest response/error
func (c *Client) updateRetryState(state *retryState, resp *http.Response, err error) {
	if err == nil {
		if state.lastResp != nil {
			c.closeBody(state.lastResp.Body)
		}
		state.lastResp = resp
		state.lastErr = fmt.Errorf("retryable status code: %d", resp.StatusCode)
	} else {
		state.lastErr = err
	}
}

func shouldRetry(attempt, maxAttempts int) bool {
	return attempt < maxAttempts
}

// getRetryDelay prefers the server's Retry-After over exponential backoff
func getRetryDelay(resp *http.Response, attempt int, backoff time.Duration) time.Duration {
	if resp != nil {
		if retryAfter := parseRetryAfter(resp); retryAfter > 0 {
			return retryAfter
		}
	}
	return calculateBackoff(attempt, backoff)
}

func (c *Client) logRetryAttempt(req *http.Request, attempt, maxAttempts int, err error, sleepDuration time.Duration, resp *http.Response) {
	args := []any{
		"method", req.Method,
		"url", redactURL(req.URL),
		"attempt", attempt + 1,
		"max_attempts", maxAttempts,
		"reason", err.Error(),
	}
	if resp != nil && parseRetryAfter(resp) > 0 {
		args = append(args, "retry_after", sleepDuration.String(), "source", "Retry-After header")
	} else {
		args = append(args, "backoff", sleepDuration.String())
	}
	c.logWarn("Retrying API request", args...)
}

// handleMaxRetriesExceeded returns the last retryable response if there is one
func (c *Client) handleMaxRetriesExceeded(req *http.Request, maxAttempts int, state *retryState) (*http.Response, error) {
	c.logError("API request max retries exceeded",
		"method", req.Method,
		"url", redactURL(req.URL),
		"attempts", maxAttempts,
		"last_error", state.lastErr.Error(),
	)

	if state.lastResp != nil {
		return state.lastResp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", state.lastErr)
}

// maxAttempts returns the maximum number of attempts (at least 1)
func (c *Client) maxAttempts() int {
	if c.MaxAttempts <= 0 {
		return 1
	}
	return c.MaxAttempts
}

func (c *Client) backoff() time.Duration {
	if c.RetryBackoff <= 0 {
		return 100 * time.Millisecond
	}
	return c.RetryBackoff
}

func (c *Client) serializer() *MappedJSONResponseSerializer {
	if c.Serializer == nil {
		return NewMappedJSONResponseSerializer(PathMapping{})
	}
	return c.Serializer
}

// isRetryableStatus returns true if the status code warrants a retry
func isRetryableStatus(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests
}

// calculateBackoff doubles baseBackoff for every attempt after the first
func calculateBackoff(attempt int, baseBackoff time.Duration) time.Duration {
	exp := max(attempt-1, 0)
	return baseBackoff * time.Duration(1<<exp)
}

// parseRetryAfter parses the Retry-After header and returns the duration to wait.
// Returns 0 if the header is not present or cannot be parsed.
// Supports both delay-seconds (e.g., "120") and HTTP-date (e.g., "Wed, 21 Oct 2015 07:28:00 GMT")
func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.ParseInt(retryAfter, 10, 64); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(retryAfter); err == nil {
		if duration := time.Until(t); duration > 0 {
			return duration
		}
	}

	return 0
}

// redactURL hides credentials carried in the query string
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	if q.Get("client_id") == "" {
		return u.String()
	}
	q.Set("client_id", "REDACTED")
	redacted := *u
	redacted.RawQuery = q.Encode()
	return redacted.String()
}

// resolveEndpoint joins a relative path to BaseURL. Absolute URLs must share
// BaseURL's scheme and host so credentials are never sent elsewhere.
func (c *Client) resolveEndpoint(path string) (string, error) {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		return c.BaseURL + path, nil
	}

	target, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if !strings.EqualFold(target.Scheme, base.Scheme) || !strings.EqualFold(target.Host, base.Host) {
		return "", fmt.Errorf("%w: %s://%s", ErrForeignURL, target.Scheme, target.Host)
	}
	return path, nil
}

// getJSON performs a GET against path and decodes the mapped response into v
func (c *Client) getJSON(ctx context.Context, operation, path string, query url.Values, v any) error {
	endpoint, err := c.resolveEndpoint(path)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		q := req.URL.Query()
		for k, vals := range query {
			for _, val := range vals {
				q.Add(k, val)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")

	c.logDebug("API request",
		"operation", operation,
		"method", http.MethodGet,
		"url", redactURL(req.URL),
	)

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer c.closeBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response body: %w", operation, err)
	}

	c.logDebug("API response",
		"operation", operation,
		"status_code", resp.StatusCode,
		"size_bytes", len(body),
	)

	return c.serializer().SerializeInto(body, resp, v)
}

// closeBody closes the response body and logs any error if a logger is configured
func (c *Client) closeBody(body io.Closer) {
	if err := body.Close(); err != nil {
		c.logDebug("Failed to close response body", "error", err.Error())
	}
}

func (c *Client) logDebug(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Debug(msg, args...)
	}
}

func (c *Client) logWarn(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Warn(msg, args...)
	}
}

func (c *Client) logError(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Error(msg, args...)
	}
}
