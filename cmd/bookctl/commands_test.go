package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookalchemy/internal/platform/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestISBNCheck(t *testing.T) {
	out, _, err := run(t, "isbn", "check", "0306406152", "978-0-306-40615-7", "0 306 40615 2")
	require.NoError(t, err)
	assert.Equal(t, "0306406152\tvalid ISBN-10\n9780306406157\tvalid ISBN-13\n0306406152\tvalid ISBN-10\n", out)

	out, _, err = run(t, "isbn", "check", "0-306-40615-3")
	assert.ErrorIs(t, err, errInvalidISBN)
	assert.Equal(t, "0306406153\tinvalid\n", out)
}

func TestCoverResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/isbn/9780306406157.json":
			_, _ = w.Write([]byte(`{"key":"/books/OL1M","title":"Signals"}`))
		case r.Method == http.MethodHead && r.URL.Path == "/b/isbn/9780306406157-L.jpg":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, _, err := run(t, "cover", "resolve", "--confirm",
		"--base-url", srv.URL, "--covers-url", srv.URL, "--placeholder", "none.jpeg",
		"--timeout", "2s", "978-0-306-40615-7", "0306406153")
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(out))
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "9780306406157", first["isbn"])
	assert.Equal(t, true, first["isbn_found"])
	assert.Equal(t, srv.URL+"/b/isbn/9780306406157-L.jpg", first["image_url"])

	assert.Equal(t, "0306406153", second["isbn"])
	assert.Equal(t, false, second["isbn_valid"])
	assert.Equal(t, "#", second["link_url"])
	assert.Equal(t, "none.jpeg", second["image_url"])
}

func TestTokenIssue(t *testing.T) {
	out, stderr, err := run(t, "token", "issue", "--secret", "s3cret", "--sub", "ops", "--ttl", "10m")
	require.NoError(t, err)
	assert.Contains(t, stderr, "sub=ops role=ADMIN")

	claims, err := crypto.ParseToken("s3cret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Sub)
	assert.Equal(t, crypto.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenIssue_RequiresSubject(t *testing.T) {
	_, _, err := run(t, "token", "issue", "--secret", "s3cret")
	assert.Error(t, err)
}
