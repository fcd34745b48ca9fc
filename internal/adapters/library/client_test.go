package library

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/httpx"
)

func newTestClient(t *testing.T, pageSize int, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient("key", srv.URL+"/api", pageSize, httpx.New(httpx.Options{Name: "lib-test", Backoff: time.Millisecond}))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.now = func() time.Time { return time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC) }
	return c
}

func TestListFacilitiesPaginates(t *testing.T) {
	var pages []string
	c := newTestClient(t, 2, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/libSrch" || q.Get("authKey") != "key" || q.Get("format") != "json" || q.Get("region") != "11" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		pages = append(pages, q.Get("pageNo"))

		switch q.Get("pageNo") {
		case "1":
			fmt.Fprint(w, `{"response":{"numFound":3,"libs":[
				{"lib":{"libCode":"111001","libName":"종로도서관","address":"서울 종로구","latitude":"37.5765","longitude":"126.9669","tel":"02-721-0700"}},
				{"lib":{"libCode":"111002","libName":"정독도서관","latitude":"37.5818","longitude":"126.9831"}}
			]}}`)
		default:
			fmt.Fprint(w, `{"response":{"numFound":"3","libs":[
				{"lib":{"libCode":"111003","libName":"좌표없음","latitude":"","longitude":""}}
			]}}`)
		}
	})

	got, err := c.ListFacilities(context.Background(), domain.Region{Code: "11"})
	if err != nil {
		t.Fatalf("ListFacilities: %v", err)
	}

	if strings.Join(pages, ",") != "1,2" {
		t.Fatalf("pages = %v, want 1,2", pages)
	}
	if len(got) != 3 {
		t.Fatalf("got %d facilities, want 3", len(got))
	}
	first := got[0]
	if first.ID != "111001" || first.Name != "종로도서관" || first.Latitude != "37.5765" {
		t.Fatalf("first = %+v", first)
	}
	if first.Metadata["tel"] != "02-721-0700" {
		t.Fatalf("metadata = %v", first.Metadata)
	}
	if got[1].Metadata != nil {
		t.Fatalf("empty metadata = %v, want nil", got[1].Metadata)
	}
	if got[2].Latitude != "" {
		t.Fatalf("raw empty coordinates must pass through, got %q", got[2].Latitude)
	}
}

func TestListFacilitiesWithoutNumFound(t *testing.T) {
	calls := 0
	c := newTestClient(t, 2, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("pageNo") {
		case "1":
			fmt.Fprint(w, `{"response":{"libs":[
				{"lib":{"libCode":"1","libName":"첫째"}},
				{"lib":{"libCode":"2","libName":"둘째"}}
			]}}`)
		case "2":
			fmt.Fprint(w, `{"response":{"libs":[{"lib":{"libCode":"3","libName":"셋째"}}]}}`)
		default:
			t.Errorf("unexpected page %s", r.URL.Query().Get("pageNo"))
			fmt.Fprint(w, `{"response":{"libs":[]}}`)
		}
	})

	got, err := c.ListFacilities(context.Background(), domain.Region{Code: "11"})
	if err != nil {
		t.Fatalf("ListFacilities: %v", err)
	}
	if calls != 2 || len(got) != 3 {
		t.Fatalf("calls = %d, facilities = %d, want 2 and 3", calls, len(got))
	}
}

func TestListFacilitiesPrefersDistrictCode(t *testing.T) {
	c := newTestClient(t, 10, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("dtl_region") != "11010" {
			t.Errorf("dtl_region = %q, want 11010", q.Get("dtl_region"))
		}
		if q.Has("region") {
			t.Errorf("region sent alongside dtl_region: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"response":{"numFound":1,"libs":[{"lib":{"libCode":"111003","libName":"종로도서관"}}]}}`)
	})

	got, err := c.ListFacilities(context.Background(), domain.Region{Code: "11", DtlCode: "11010"})
	if err != nil {
		t.Fatalf("ListFacilities: %v", err)
	}
	if len(got) != 1 || got[0].ID != "111003" {
		t.Fatalf("got %+v", got)
	}
}

func TestListFacilitiesAPIError(t *testing.T) {
	c := newTestClient(t, 10, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"error":"등록되지 않은 인증키입니다."}}`)
	})

	_, err := c.ListFacilities(context.Background(), domain.Region{Code: "11"})
	var apiErr *apiError
	if !errors.As(err, &apiErr) || !strings.Contains(apiErr.Message, "인증키") {
		t.Fatalf("err = %v, want apiError", err)
	}
}

func TestListFacilitiesNeedsRegionCode(t *testing.T) {
	c := newTestClient(t, 10, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := c.ListFacilities(context.Background(), domain.Region{Sido: "Tokyo"})
	if !errors.Is(err, domain.ErrRegionUnsupported) {
		t.Fatalf("err = %v, want ErrRegionUnsupported", err)
	}
}

func TestPopularBooks(t *testing.T) {
	c := newTestClient(t, 10, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/loanItemSrch" {
			t.Errorf("path = %q", r.URL.Path)
		}
		want := map[string]string{
			"startDt":  "2026-03-01",
			"endDt":    "2026-03-31",
			"gender":   "1",
			"age":      "20",
			"kdc":      "8;3",
			"pageSize": "5",
		}
		for k, v := range want {
			if q.Get(k) != v {
				t.Errorf("%s = %q, want %q", k, q.Get(k), v)
			}
		}
		if q.Has("dtl_kdc") {
			t.Errorf("dtl_kdc sent although empty")
		}
		fmt.Fprint(w, `{"response":{"docs":[
			{"doc":{"ranking":"1","bookname":"소년이 온다","authors":"한강 지음","publisher":"창비","publication_year":"2014","isbn13":"9788936434120","loan_count":"1520","bookImageURL":"https://img/1.jpg"}},
			{"doc":{"ranking":2,"bookname":"작별하지 않는다","loan_count":998}}
		]}}`)
	})

	books, err := c.PopularBooks(context.Background(), domain.ReaderProfile{
		Gender: "1",
		Age:    "20",
		KDC:    []string{"8", "3"},
	}, 5)
	if err != nil {
		t.Fatalf("PopularBooks: %v", err)
	}

	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	if books[0].Name != "소년이 온다" || books[0].LoanCount != 1520 || books[0].Ranking != 1 || books[0].ISBN13 != "9788936434120" {
		t.Fatalf("first = %+v", books[0])
	}
	if books[1].Ranking != 2 || books[1].LoanCount != 998 {
		t.Fatalf("second = %+v", books[1])
	}
}

func TestPopularBooksEmpty(t *testing.T) {
	c := newTestClient(t, 10, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"resultNum":0,"docs":[]}}`)
	})

	books, err := c.PopularBooks(context.Background(), domain.ReaderProfile{}, 20)
	if err != nil {
		t.Fatalf("PopularBooks: %v", err)
	}
	if books == nil || len(books) != 0 {
		t.Fatalf("books = %#v, want empty slice", books)
	}
}

func TestFlexInt(t *testing.T) {
	for in, want := range map[string]int{`12`: 12, `"34"`: 34, `""`: 0, `null`: 0} {
		var n flexInt
		if err := n.UnmarshalJSON([]byte(in)); err != nil {
			t.Fatalf("UnmarshalJSON(%s): %v", in, err)
		}
		if int(n) != want {
			t.Errorf("UnmarshalJSON(%s) = %d, want %d", in, n, want)
		}
	}
	var n flexInt
	if err := n.UnmarshalJSON([]byte(`"x"`)); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}
