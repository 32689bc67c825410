package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"bookalchemy/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps (page-1)*pageSize within an int32 OFFSET.
	maxPage = math.MaxInt32 / maxPageSize
)

// List handles GET /v1/books
// @Summary List books with covers
// @Tags books
// @Produce json
// @Param sort query string false "title or author"
// @Param direction query string false "asc or desc"
// @Param search query string false "Title or ISBN substring"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := Query{
		Search: strings.TrimSpace(query.Get("search")),
		Sort:   query.Get("sort"),
		Desc:   query.Get("direction") == "desc",
	}
	if params.Sort == "" {
		params.Sort = SortTitle
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	books, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	meta := map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	}
	if total == 0 && params.Search != "" {
		meta["message"] = "No books found matching your search."
	}
	httpx.JSONSuccess(w, r, books, meta)
}

// Get handles GET /v1/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /v1/books
// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateInput true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	in.Normalize()
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(details), details)
		return
	}

	res, err := h.service.Create(r.Context(), in)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message,
				[]httpx.ErrorDetail{{Field: verr.Field, Message: verr.Message}})
		case errors.Is(err, ErrAuthorNotFound):
			httpx.JSONError(w, r, http.StatusUnprocessableEntity, "AUTHOR_NOT_FOUND", "Author not found", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Error saving book", nil)
		}
		return
	}

	message := "Book saved successfully. ISBN not found in OpenLibrary."
	if res.ISBNFound {
		message = "Book saved successfully. ISBN found in OpenLibrary."
	}
	httpx.JSONCreated(w, r, res, map[string]any{"message": message})
}

// Delete handles DELETE /v1/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	res, err := h.service.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Error deleting the book", nil)
		return
	}

	messages := []string{fmt.Sprintf("The book '%s' was deleted successfully.", res.Book.Title)}
	if res.AuthorDeleted {
		messages = append(messages,
			fmt.Sprintf("Since '%s' has no more books, the author was also deleted.", res.AuthorName))
	}
	httpx.JSONSuccess(w, r, res, map[string]any{"messages": messages})
}

func bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid book id", nil)
		return 0, false
	}
	return id, true
}

// validationMessage keeps the form wording when a required field is missing.
func validationMessage(details []httpx.ErrorDetail) string {
	for _, d := range details {
		if strings.HasSuffix(d.Message, " is required") {
			return "ISBN, title, and author are required fields."
		}
	}
	return details[0].Message
}
