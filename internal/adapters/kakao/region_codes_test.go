package kakao

import "testing"

func TestRegionCodes(t *testing.T) {
	cases := []struct {
		sido, sigungu    string
		wantCode, wantDt string
	}{
		{"서울특별시", "종로구", "11", "11010"},
		{" 부산광역시 ", " 해운대구", "21", "21090"},
		{"인천광역시", "미추홀구", "23", "23030"},
		{"경기도", "수원시 장안구", "31", ""},
		{"강원특별자치도", "춘천시", "32", ""},
		{"Somewhere", "", "", ""},
	}

	for _, tc := range cases {
		if got := RegionCode(tc.sido); got != tc.wantCode {
			t.Errorf("RegionCode(%q) = %q, want %q", tc.sido, got, tc.wantCode)
		}
		if got := DtlRegionCode(tc.sido, tc.sigungu); got != tc.wantDt {
			t.Errorf("DtlRegionCode(%q, %q) = %q, want %q", tc.sido, tc.sigungu, got, tc.wantDt)
		}
	}
}

func TestDtlRegionCodesBelongToProvince(t *testing.T) {
	for sido, districts := range dtlRegionCodes {
		prefix := RegionCode(sido)
		if prefix == "" {
			t.Fatalf("district table has unknown province %q", sido)
		}
		for sigungu, code := range districts {
			if len(code) != 5 || code[:2] != prefix {
				t.Errorf("%s %s = %q, want a 5-digit code under %s", sido, sigungu, code, prefix)
			}
		}
	}
}
