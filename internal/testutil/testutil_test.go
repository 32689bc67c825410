package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookalchemy/internal/platform/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTestToken(t *testing.T) {
	claims, err := crypto.ParseToken("secret", GenerateTestToken("secret", "alice", crypto.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Sub)
	assert.Equal(t, crypto.RoleAdmin, claims.Role)

	_, err = crypto.ParseToken("secret", GenerateExpiredToken("secret", "alice", crypto.RoleAdmin))
	assert.Error(t, err)
}

func TestNewRequestWithAuth(t *testing.T) {
	r := NewRequestWithAuth(http.MethodPost, "/v1/books", map[string]any{"isbn": "0306406152"}, "tok")
	assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
}

func TestRecordHTTPResponse(t *testing.T) {
	w := httptest.NewRecorder()
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.WriteString(`{"success":false}`)

	rec := RecordHTTPResponse(w)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, false, rec.Body["success"])
}
