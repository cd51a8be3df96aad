package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/pagination"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondAppError maps a classified error to its HTTP status
func respondAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidArgument:
		status = http.StatusBadRequest
	case apperrors.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case apperrors.CodePermissionDenied:
		status = http.StatusForbidden
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeAlreadyExists:
		status = http.StatusConflict
	}
	respondError(w, err.Error(), status)
}

// paginationHeader is the paging metadata carried on list responses
type paginationHeader struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
}

// addPagination attaches paging metadata as a Pagination response header so
// list bodies stay plain arrays.
func addPagination[T any](w http.ResponseWriter, page *pagination.Page[T]) {
	header, _ := json.Marshal(paginationHeader{
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalCount:  page.TotalCount,
		TotalPages:  page.TotalPages,
	})
	w.Header().Set("Pagination", string(header))
	w.Header().Set("Access-Control-Expose-Headers", "Pagination")
}

// pageRequest reads paging parameters from the query string. Absent or
// unparsable values fall back to defaults during normalization.
func pageRequest(r *http.Request) pagination.Request {
	req := pagination.Request{}
	if v := r.URL.Query().Get("pageNumber"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Page = n
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Size = n
		}
	}
	return req
}
