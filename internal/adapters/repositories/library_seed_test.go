package repositories

import (
	"strings"
	"testing"
)

func TestParseLibrarySeeds(t *testing.T) {
	data := []byte(`[
		{"lib_code":"111001","name":"종로도서관","sido":"서울특별시","latitude":"37.5765","longitude":"126.9669"},
		{"lib_code":" 211001 ","name":"부산시민도서관","region_code":"21","latitude":"35.1469","longitude":"129.0585"}
	]`)

	rows, err := ParseLibrarySeeds(data)
	if err != nil {
		t.Fatalf("ParseLibrarySeeds: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].RegionCode != "11" {
		t.Fatalf("derived region code = %q, want 11", rows[0].RegionCode)
	}
	if rows[1].LibCode != "211001" || rows[1].RegionCode != "21" {
		t.Fatalf("second = %+v", rows[1])
	}
}

func TestParseLibrarySeedsRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "empty code", data: `[{"name":"x","region_code":"11"}]`, want: "lib_code cannot be empty"},
		{name: "empty name", data: `[{"lib_code":"1","region_code":"11"}]`, want: "name cannot be empty"},
		{name: "duplicate", data: `[{"lib_code":"1","name":"a","region_code":"11"},{"lib_code":"1","name":"b","region_code":"11"}]`, want: "duplicate"},
		{name: "unknown region", data: `[{"lib_code":"1","name":"a","sido":"Atlantis"}]`, want: "unknown sido"},
		{name: "bad json", data: `{`, want: "parse json"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLibrarySeeds([]byte(tc.data))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}
