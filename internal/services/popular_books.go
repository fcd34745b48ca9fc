package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/obs"
	"library-route-service/internal/ports"
)

const (
	DefaultBookLimit = 20
	MaxBookLimit     = 100
)

// PopularBooks validates the reader profile and asks the catalog for the
// most borrowed books matching it.
func PopularBooks(
	ctx context.Context,
	profile domain.ReaderProfile,
	limit int,
	catalog ports.BookCatalog,
) (_ []domain.Book, err error) {
	defer obs.Time(ctx, "services.PopularBooks")(&err)

	switch {
	case limit == 0:
		limit = DefaultBookLimit
	case limit < 0 || limit > MaxBookLimit:
		return nil, fmt.Errorf("popular books: %w: limit %d outside [1, %d]", domain.ErrInvalidInput, limit, MaxBookLimit)
	}

	profile, err = normalizeProfile(profile)
	if err != nil {
		return nil, fmt.Errorf("popular books: %w", err)
	}

	books, err := catalog.PopularBooks(ctx, profile, limit)
	if err != nil {
		return nil, fmt.Errorf("popular books: %w", err)
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

// Loan statistics codes: gender 0 (male) 1 (female) 2 (unknown); age is the
// lower bound of an age band, -1 for unknown; KDC classes are one digit and
// detailed classes two.
func normalizeProfile(p domain.ReaderProfile) (domain.ReaderProfile, error) {
	out := domain.ReaderProfile{
		Gender: strings.TrimSpace(p.Gender),
		Age:    strings.TrimSpace(p.Age),
	}

	switch out.Gender {
	case "", "0", "1", "2":
	default:
		return domain.ReaderProfile{}, fmt.Errorf("%w: gender %q", domain.ErrInvalidInput, p.Gender)
	}

	if out.Age != "" {
		age, err := strconv.Atoi(out.Age)
		if err != nil || age < -1 || age > 60 {
			return domain.ReaderProfile{}, fmt.Errorf("%w: age %q", domain.ErrInvalidInput, p.Age)
		}
	}

	var err error
	if out.KDC, err = digitCodes(p.KDC, 1); err != nil {
		return domain.ReaderProfile{}, err
	}
	if out.DtlKDC, err = digitCodes(p.DtlKDC, 2); err != nil {
		return domain.ReaderProfile{}, err
	}
	return out, nil
}

func digitCodes(codes []string, width int) ([]string, error) {
	var out []string
	seen := map[string]struct{}{}
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if len(c) != width || strings.Trim(c, "0123456789") != "" {
			return nil, fmt.Errorf("%w: class code %q must be %d digit(s)", domain.ErrInvalidInput, c, width)
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
