package cover

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"bookalchemy/internal/platform/openlibrary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isbn13 appends the check digit to a 12 digit prefix.
func isbn13(prefix string) string {
	sum := 0
	for i, ch := range prefix {
		d := int(ch - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return prefix + strconv.Itoa((10-sum%10)%10)
}

func TestResolver_Resolve_RateLimitedUpstreamIsNotAFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"key":"/books/OL1M"}`))
		}
	}))
	defer server.Close()

	client := openlibrary.NewClient(openlibrary.Config{
		BaseURL:   server.URL,
		CoversURL: server.URL,
		RPS:       20,
	})
	metrics := &countingMetrics{}
	r := NewResolver(client, NewCache(), Options{
		PlaceholderURL: placeholder,
		CatalogTimeout: 100 * time.Millisecond,
		CoverTimeout:   100 * time.Millisecond,
		Metrics:        metrics,
	})

	// Twelve books need 24 upstream calls, about 1.2s at 20 per second, so
	// most calls queue far longer than their 100ms timeout.
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = isbn13("978030640" + strconv.Itoa(100+i))
	}
	results := make([]Result, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = r.Resolve(context.Background(), id, true)
		}(i, id)
	}
	wg.Wait()

	for i, res := range results {
		require.True(t, res.LocallyValid, ids[i])
		assert.True(t, res.RemotelyConfirmed, ids[i])
		assert.Equal(t, client.CoverURL(ids[i]), res.ImageURL, ids[i])
	}
	assert.Empty(t, metrics.failures)
	assert.Equal(t, len(ids), metrics.misses)
}
