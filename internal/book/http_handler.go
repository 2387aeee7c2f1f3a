package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookmanager/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/search", h.Search)
	mux.HandleFunc("GET /books/sort", h.Sort)
	mux.HandleFunc("GET /books/filter", h.Filter)
	mux.HandleFunc("GET /books/{isbn}", h.GetByISBN)
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("PUT /books/{isbn}", h.Update)
	mux.HandleFunc("DELETE /books/{isbn}", h.Delete)
	mux.HandleFunc("GET /stats", h.Stats)
}

// List handles GET /books
// @Summary List books
// @Description Get all books, or one page when both page and limit are given
// @Tags books
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Items per page"
// @Success 200 {array} Book
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	books, err := h.service.List(r.Context(), page, limit)
	h.writeBooks(w, r, books, err)
}

// Search handles GET /books/search
// @Summary Search books by category
// @Description Case-insensitive exact match on category
// @Tags books
// @Produce json
// @Param category query string false "Category"
// @Success 200 {array} Book
// @Router /books/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.SearchByCategory(r.Context(), r.URL.Query().Get("category"))
	h.writeBooks(w, r, books, err)
}

// Sort handles GET /books/sort
// @Summary Sort books
// @Tags books
// @Produce json
// @Param by query string true "Sort field" Enums(title, year)
// @Param order query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {array} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books/sort [get]
func (h *HTTPHandler) Sort(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	books, err := h.service.Sort(r.Context(), query.Get("by"), query.Get("order"))
	h.writeBooks(w, r, books, err)
}

// Filter handles GET /books/filter
// @Summary Filter books by author and year
// @Description author is a case-insensitive substring, year an exact match; both are optional
// @Tags books
// @Produce json
// @Param author query string false "Author substring"
// @Param year query int false "Publication year"
// @Success 200 {array} Book
// @Router /books/filter [get]
func (h *HTTPHandler) Filter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var year *int
	if yearStr := query.Get("year"); yearStr != "" {
		if val, err := strconv.Atoi(yearStr); err == nil {
			year = &val
		}
	}

	books, err := h.service.Filter(r.Context(), query.Get("author"), year)
	h.writeBooks(w, r, books, err)
}

// GetByISBN handles GET /books/{isbn}
// @Summary Get book by ISBN
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} Book
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{isbn} [get]
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByISBN(r.Context(), r.PathValue("isbn"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Create handles POST /books
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Param book body CreateInput true "Book"
// @Success 201 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 415 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, b)
}

// Update handles PUT /books/{isbn}
// @Summary Replace a book's title, author, year and category
// @Tags books
// @Accept json
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Param book body UpdateInput true "Book"
// @Success 200 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 415 {object} httpx.ErrorResponse
// @Router /books/{isbn} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	b, err := h.service.Update(r.Context(), r.PathValue("isbn"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Delete handles DELETE /books/{isbn}
// @Summary Delete a book
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{isbn} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("isbn")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONMessage(w, http.StatusOK, "Book deleted")
}

// Stats handles GET /stats
// @Summary Book count and publication year range
// @Tags stats
// @Produce json
// @Success 200 {object} Stats
// @Router /stats [get]
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, st)
}

func (h *HTTPHandler) writeBooks(w http.ResponseWriter, r *http.Request, books []Book, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if books == nil {
		books = []Book{}
	}
	httpx.JSONSuccess(w, books)
}

func (h *HTTPHandler) writeDecodeError(w http.ResponseWriter, err error) {
	if httpx.IsBodyTooLarge(err) {
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
		return
	}
	httpx.JSONError(w, http.StatusBadRequest, InvalidData().Message, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, len(verr.Fields))
		for i, f := range verr.Fields {
			details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
		}
		httpx.JSONError(w, http.StatusBadRequest, verr.Message, details)
	case errors.Is(err, ErrInvalidSortField):
		httpx.JSONError(w, http.StatusBadRequest, "Invalid sort field", nil)
	case errors.Is(err, ErrDuplicateISBN):
		httpx.JSONError(w, http.StatusBadRequest, "ISBN already exists", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "Book not found", nil)
	default:
		httpx.JSONInternalError(w, r, err)
	}
}
