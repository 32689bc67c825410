package cover

import (
	"net/http"
	"strconv"

	"bookalchemy/internal/httpx"
)

type HTTPHandler struct {
	resolver *Resolver
}

func NewHTTPHandler(resolver *Resolver) *HTTPHandler {
	return &HTTPHandler{resolver: resolver}
}

// Resolve handles GET /v1/covers/{isbn}
// @Summary Resolve the cover of one identifier
// @Tags covers
// @Produce json
// @Param isbn path string true "Identifier"
// @Param confirm query bool false "Confirm against Open Library"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/covers/{isbn} [get]
func (h *HTTPHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	res := h.resolver.Resolve(r.Context(), r.PathValue("isbn"), confirm)
	httpx.JSONSuccess(w, r, res, nil)
}
