package library

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/obs"
)

// loanWindowDays is how far back loan statistics are counted.
const loanWindowDays = 30

type loanItemPayload struct {
	Docs []struct {
		Doc bookRecord `json:"doc"`
	} `json:"docs"`
}

type bookRecord struct {
	BookName        string  `json:"bookname"`
	Authors         string  `json:"authors"`
	Publisher       string  `json:"publisher"`
	PublicationYear string  `json:"publication_year"`
	ISBN13          string  `json:"isbn13"`
	BookImageURL    string  `json:"bookImageURL"`
	LoanCount       flexInt `json:"loan_count"`
	Ranking         flexInt `json:"ranking"`
}

// PopularBooks queries loanItemSrch over the last 30 days. Multi-valued
// class filters are sent semicolon-separated as the API expects.
func (c *Client) PopularBooks(ctx context.Context, profile domain.ReaderProfile, limit int) (_ []domain.Book, err error) {
	defer obs.Time(ctx, "library.PopularBooks")(&err)

	end := c.now()
	start := end.AddDate(0, 0, -loanWindowDays)

	params := url.Values{}
	params.Set("pageNo", "1")
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("startDt", start.Format("2006-01-02"))
	params.Set("endDt", end.Format("2006-01-02"))
	if profile.Gender != "" {
		params.Set("gender", profile.Gender)
	}
	if profile.Age != "" {
		params.Set("age", profile.Age)
	}
	if len(profile.KDC) > 0 {
		params.Set("kdc", strings.Join(profile.KDC, ";"))
	}
	if len(profile.DtlKDC) > 0 {
		params.Set("dtl_kdc", strings.Join(profile.DtlKDC, ";"))
	}

	var payload loanItemPayload
	if err := c.get(ctx, "loanItemSrch", params, &payload); err != nil {
		return nil, fmt.Errorf("popular books: %w", err)
	}

	books := make([]domain.Book, 0, len(payload.Docs))
	for _, d := range payload.Docs {
		b := d.Doc
		books = append(books, domain.Book{
			Name:            b.BookName,
			Authors:         b.Authors,
			Publisher:       b.Publisher,
			PublicationYear: b.PublicationYear,
			ISBN13:          b.ISBN13,
			ImageURL:        b.BookImageURL,
			LoanCount:       int(b.LoanCount),
			Ranking:         int(b.Ranking),
		})
	}
	return books, nil
}
