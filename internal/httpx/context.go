package httpx

import (
	"context"
	"net/http"
	"time"
)

type contextKey string

const (
	subjectKey   contextKey = "subject"
	roleKey      contextKey = "role"
	requestIDKey contextKey = "requestID"
	tokenIDKey   contextKey = "tokenID"
	expiresKey   contextKey = "tokenExpires"
)

// SubjectFrom retrieves the token subject from the request context.
func SubjectFrom(r *http.Request) string {
	if v, ok := r.Context().Value(subjectKey).(string); ok {
		return v
	}
	return ""
}

// RoleFrom retrieves the token role from the request context.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithSubject(ctx context.Context, subject, role string) context.Context {
	ctx = context.WithValue(ctx, subjectKey, subject)
	return context.WithValue(ctx, roleKey, role)
}

// TokenFrom returns the ID and expiry of the bearer token that authenticated r.
func TokenFrom(r *http.Request) (string, time.Time) {
	jti, _ := r.Context().Value(tokenIDKey).(string)
	exp, _ := r.Context().Value(expiresKey).(time.Time)
	return jti, exp
}

func ContextWithToken(ctx context.Context, jti string, expiresAt time.Time) context.Context {
	ctx = context.WithValue(ctx, tokenIDKey, jti)
	return context.WithValue(ctx, expiresKey, expiresAt)
}

func RequestIDFrom(r *http.Request) string {
	if r == nil {
		return ""
	}
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
