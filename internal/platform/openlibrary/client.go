package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://openlibrary.org"
	DefaultCoversURL = "https://covers.openlibrary.org"
)

// ErrUnexpectedStatus is wrapped by every non-success HTTP answer.
var ErrUnexpectedStatus = errors.New("unexpected status code")

type Config struct {
	BaseURL    string
	CoversURL  string
	UserAgent  string
	RPS        int
	MaxRetries int
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	coversURL  string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CoversURL == "" {
		cfg.CoversURL = DefaultCoversURL
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Every(time.Second / time.Duration(cfg.RPS))
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  cfg.UserAgent,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		coversURL:  strings.TrimRight(cfg.CoversURL, "/"),
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: cfg.MaxRetries,
	}
}

// BookURL is the human facing detail page for an ISBN.
func (c *Client) BookURL(isbn string) string {
	return fmt.Sprintf("%s/isbn/%s", c.baseURL, url.PathEscape(isbn))
}

// CoverURL is the large cover image for an ISBN.
func (c *Client) CoverURL(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-L.jpg", c.coversURL, url.PathEscape(isbn))
}

// Edition is the subset of isbn/{id}.json we care about.
type Edition struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	PublishDate string   `json:"publish_date"`
	ISBN10      []string `json:"isbn_10"`
	ISBN13      []string `json:"isbn_13"`
}

// GetEdition fetches isbn/{id}.json. A 200 answer whose body is not JSON is
// reported as a decode error.
func (c *Client) GetEdition(ctx context.Context, isbn string) (*Edition, error) {
	u := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, url.PathEscape(isbn))

	var res Edition
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Exists returns nil when Open Library knows the ISBN.
func (c *Client) Exists(ctx context.Context, isbn string) error {
	_, err := c.GetEdition(ctx, isbn)
	return err
}

// ProbeCover checks that a cover image is served for the ISBN without
// downloading it. Redirects are followed and any 2xx answer counts.
func (c *Client) ProbeCover(ctx context.Context, isbn string) error {
	budget, bounded := exchangeBudget(ctx)
	if err := c.acquire(ctx); err != nil {
		return err
	}
	ctx, cancel := exchangeContext(ctx, budget, bounded)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.CoverURL(isbn), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// get applies the deadline of ctx to each attempt's HTTP exchange. Backoff
// and queueing behind the limiter do not consume it.
func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	budget, bounded := exchangeBudget(ctx)

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			if err := pause(ctx, time.Duration(1<<uint(i-1))*time.Second); err != nil {
				return err
			}
		}

		if err := c.acquire(ctx); err != nil {
			return err
		}

		retry, err := c.attempt(ctx, budget, bounded, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) attempt(ctx context.Context, budget time.Duration, bounded bool, url string, target interface{}) (bool, error) {
	ctx, cancel := exchangeContext(ctx, budget, bounded)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return c.do(req, target)
}

func (c *Client) do(req *http.Request, target interface{}) (bool, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}

// acquire waits for an outbound slot on the shared limiter.
func (c *Client) acquire(ctx context.Context) error {
	res := c.limiter.Reserve()
	if !res.OK() {
		return errors.New("rate limiter: reservation refused")
	}
	if err := pause(ctx, res.Delay()); err != nil {
		res.Cancel()
		return err
	}
	return nil
}

// exchangeBudget is the time left before the deadline of ctx, if it has one.
func exchangeBudget(ctx context.Context) (time.Duration, bool) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}
	return time.Until(deadline), true
}

// exchangeContext restarts the deadline of ctx so it covers only the HTTP
// exchange that follows. Cancellation of ctx is still propagated.
func exchangeContext(ctx context.Context, budget time.Duration, bounded bool) (context.Context, context.CancelFunc) {
	if !bounded {
		return context.WithCancel(ctx)
	}
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), budget)
	stop := context.AfterFunc(ctx, func() {
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			cancel()
		}
	})
	return reqCtx, func() {
		stop()
		cancel()
	}
}

// pause sleeps for d. Cancellation of ctx cuts it short, an expired deadline
// does not.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	done := ctx.Done()
	for {
		select {
		case <-timer.C:
			return nil
		case <-done:
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ctx.Err()
			}
			done = nil
		}
	}
}
