package domain

// Administrative region a coordinate falls in, plus the library-directory
// codes it maps to. Code is the province-level code and DtlCode the
// district-level one; either is empty when no mapping is known.
type Region struct {
	Sido    string
	Sigungu string
	Dong    string
	Code    string
	DtlCode string
}

// DirectoryFilter returns the libSrch parameter and code to filter by. The
// narrower district code wins; both results are empty when neither is known.
func (r Region) DirectoryFilter() (param, code string) {
	switch {
	case r.DtlCode != "":
		return "dtl_region", r.DtlCode
	case r.Code != "":
		return "region", r.Code
	default:
		return "", ""
	}
}
