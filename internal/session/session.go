// Package session tracks revoked API tokens.
package session

import (
	"errors"
	"time"
)

// ErrMissingTokenID is returned when a token without a jti is revoked.
var ErrMissingTokenID = errors.New("token has no id")

type Revocation struct {
	JTI       string    `json:"jti"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}
