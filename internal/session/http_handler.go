package session

import (
	"errors"
	"net/http"

	"bookalchemy/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Revoke handles POST /v1/tokens/revoke
// @Summary Revoke the calling token
// @Tags tokens
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/tokens/revoke [post]
func (h *HTTPHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	subject := httpx.SubjectFrom(r)
	if subject == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	jti, expiresAt := httpx.TokenFrom(r)

	rev := Revocation{JTI: jti, Subject: subject, ExpiresAt: expiresAt}
	if err := h.service.Revoke(r.Context(), rev); err != nil {
		if errors.Is(err, ErrMissingTokenID) {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Token cannot be revoked", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, rev, map[string]any{"message": "Token revoked."})
}
