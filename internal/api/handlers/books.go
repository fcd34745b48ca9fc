package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"library-route-service/internal/api/dto"
	"library-route-service/internal/domain"
	"library-route-service/internal/ports"
	"library-route-service/internal/services"
)

type BookHandler struct {
	Catalog ports.BookCatalog
}

// Popular lists the most borrowed books for a reader profile. Class codes
// may be repeated (?kdc=8&kdc=3) or comma-separated (?kdc=8,3).
func (h *BookHandler) Popular(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := dto.PopularBooksQuery{
		Gender: strings.TrimSpace(q.Get("gender")),
		Age:    strings.TrimSpace(q.Get("age")),
		KDC:    splitValues(q["kdc"]),
		DtlKDC: splitValues(q["dtl_kdc"]),
	}
	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "page_size must be an integer")
			return
		}
		query.Limit = n
	}
	if err := validateStruct(&query); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	books, err := services.PopularBooks(r.Context(), domain.ReaderProfile{
		Gender: query.Gender,
		Age:    query.Age,
		KDC:    query.KDC,
		DtlKDC: query.DtlKDC,
	}, query.Limit, h.Catalog)
	if err != nil {
		writeServiceError(w, r, "books.popular", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPopularBooksResponse(books))
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
