package domain

import "testing"

func TestRegionDirectoryFilter(t *testing.T) {
	cases := []struct {
		name      string
		region    Region
		wantParam string
		wantCode  string
	}{
		{"district wins", Region{Code: "11", DtlCode: "11010"}, "dtl_region", "11010"},
		{"province fallback", Region{Code: "31"}, "region", "31"},
		{"unmapped", Region{Sido: "Tokyo"}, "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			param, code := tc.region.DirectoryFilter()
			if param != tc.wantParam || code != tc.wantCode {
				t.Fatalf("DirectoryFilter() = %q, %q, want %q, %q", param, code, tc.wantParam, tc.wantCode)
			}
		})
	}
}
