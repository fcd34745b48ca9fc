package dto

import "library-route-service/internal/domain"

// PopularBooksQuery is decoded from the query string.
type PopularBooksQuery struct {
	Gender string   `json:"gender" validate:"omitempty,oneof=0 1 2"`
	Age    string   `json:"age" validate:"omitempty,numeric"`
	KDC    []string `json:"kdc" validate:"max=10,dive,len=1,numeric"`
	DtlKDC []string `json:"dtl_kdc" validate:"max=10,dive,len=2,numeric"`
	Limit  int      `json:"page_size" validate:"omitempty,min=1,max=100"`
}

type BookResponse struct {
	Name            string `json:"name"`
	Authors         string `json:"authors"`
	Publisher       string `json:"publisher"`
	PublicationYear string `json:"publication_year"`
	ISBN13          string `json:"isbn13"`
	ImageURL        string `json:"image_url,omitempty"`
	LoanCount       int    `json:"loan_count"`
	Ranking         int    `json:"ranking"`
}

type PopularBooksResponse struct {
	Books []BookResponse `json:"books"`
}

func NewPopularBooksResponse(books []domain.Book) PopularBooksResponse {
	res := PopularBooksResponse{Books: make([]BookResponse, 0, len(books))}
	for _, b := range books {
		res.Books = append(res.Books, BookResponse{
			Name:            b.Name,
			Authors:         b.Authors,
			Publisher:       b.Publisher,
			PublicationYear: b.PublicationYear,
			ISBN13:          b.ISBN13,
			ImageURL:        b.ImageURL,
			LoanCount:       b.LoanCount,
			Ranking:         b.Ranking,
		})
	}
	return res
}
