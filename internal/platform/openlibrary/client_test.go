package openlibrary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string, retries int) *Client {
	return NewClient(Config{
		BaseURL:    url,
		CoversURL:  url,
		UserAgent:  "bookalchemy-test",
		MaxRetries: retries,
	})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultCoversURL, c.coversURL)
	assert.Equal(t, "https://openlibrary.org/isbn/0306406152", c.BookURL("0306406152"))
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/0306406152-L.jpg", c.CoverURL("0306406152"))
}

func TestClient_Exists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bookalchemy-test", r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/isbn/9780306406157.json":
			_, _ = w.Write([]byte(`{"key":"/books/OL1M","title":"Signals","isbn_13":["9780306406157"]}`))
		case "/isbn/0306406152.json":
			_, _ = w.Write([]byte(`<html>not json</html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL, 0)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		require.NoError(t, c.Exists(ctx, "9780306406157"))

		ed, err := c.GetEdition(ctx, "9780306406157")
		require.NoError(t, err)
		assert.Equal(t, "Signals", ed.Title)
	})

	t.Run("not found", func(t *testing.T) {
		err := c.Exists(ctx, "9780000000002")
		assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	})

	t.Run("malformed body", func(t *testing.T) {
		assert.Error(t, c.Exists(ctx, "0306406152"))
	})
}

func TestClient_Exists_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 1)
	require.NoError(t, c.Exists(context.Background(), "0306406152"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_ProbeCover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/b/isbn/0306406152-L.jpg":
			http.Redirect(w, r, "/b/id/42-L.jpg", http.StatusFound)
		case "/b/id/42-L.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL, 0)

	assert.NoError(t, c.ProbeCover(context.Background(), "0306406152"))

	err := c.ProbeCover(context.Background(), "9780306406157")
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestClient_DeadlineCoversExchangeNotQueue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, CoversURL: server.URL, RPS: 10})

	// Eight calls at 10 per second queue for ~700ms, well past each 150ms deadline.
	const calls = 8
	errs := make([]error, calls)
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
			defer cancel()
			if i%2 == 0 {
				errs[i] = c.Exists(ctx, "9780306406157")
			} else {
				errs[i] = c.ProbeCover(ctx, "9780306406157")
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "call %d", i)
	}
}

func TestClient_DeadlineStillBoundsExchange(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := newTestClient(server.URL, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.ProbeCover(ctx, "0306406152")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_CancelWhileQueued(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, CoversURL: server.URL, RPS: 1})
	require.NoError(t, c.ProbeCover(context.Background(), "0306406152"))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	err := c.ProbeCover(ctx, "0306406152")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
