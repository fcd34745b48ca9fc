package kakao

import "strings"

// regionCodes maps province-level names, as Kakao reports them, to the
// region codes the library directory filters by.
var regionCodes = map[string]string{
	"서울특별시":   "11",
	"부산광역시":   "21",
	"대구광역시":   "22",
	"인천광역시":   "23",
	"광주광역시":   "24",
	"대전광역시":   "25",
	"울산광역시":   "26",
	"세종특별자치시": "29",
	"경기도":     "31",
	"강원도":     "32",
	"강원특별자치도": "32",
	"충청북도":    "33",
	"충청남도":    "34",
	"전라북도":    "35",
	"전북특별자치도": "35",
	"전라남도":    "36",
	"경상북도":    "37",
	"경상남도":    "38",
	"제주특별자치도": "39",
}

// RegionCode returns the directory code for a province name, or "" when the
// name is unknown.
func RegionCode(sido string) string {
	return regionCodes[strings.TrimSpace(sido)]
}

// dtlRegionCodes maps district names, grouped by province, to the
// district-level codes libSrch accepts as dtl_region. Districts missing here
// are searched by their province code instead.
var dtlRegionCodes = map[string]map[string]string{
	"서울특별시": {
		"종로구":  "11010",
		"중구":   "11020",
		"용산구":  "11030",
		"성동구":  "11040",
		"광진구":  "11050",
		"동대문구": "11060",
		"중랑구":  "11070",
		"성북구":  "11080",
		"강북구":  "11090",
		"도봉구":  "11100",
		"노원구":  "11110",
		"은평구":  "11120",
		"서대문구": "11130",
		"마포구":  "11140",
		"양천구":  "11150",
		"강서구":  "11160",
		"구로구":  "11170",
		"금천구":  "11180",
		"영등포구": "11190",
		"동작구":  "11200",
		"관악구":  "11210",
		"서초구":  "11220",
		"강남구":  "11230",
		"송파구":  "11240",
		"강동구":  "11250",
	},
	"부산광역시": {
		"중구":   "21010",
		"서구":   "21020",
		"동구":   "21030",
		"영도구":  "21040",
		"부산진구": "21050",
		"동래구":  "21060",
		"남구":   "21070",
		"북구":   "21080",
		"해운대구": "21090",
		"사하구":  "21100",
		"금정구":  "21110",
		"강서구":  "21120",
		"연제구":  "21130",
		"수영구":  "21140",
		"사상구":  "21150",
		"기장군":  "21310",
	},
	"대구광역시": {
		"중구":  "22010",
		"동구":  "22020",
		"서구":  "22030",
		"남구":  "22040",
		"북구":  "22050",
		"수성구": "22060",
		"달서구": "22070",
		"달성군": "22310",
		"군위군": "22320",
	},
	"인천광역시": {
		"중구":   "23010",
		"동구":   "23020",
		"미추홀구": "23030",
		"남구":   "23030",
		"연수구":  "23040",
		"남동구":  "23050",
		"부평구":  "23060",
		"계양구":  "23070",
		"서구":   "23080",
		"강화군":  "23310",
		"옹진군":  "23320",
	},
	"광주광역시": {
		"동구":  "24010",
		"서구":  "24020",
		"남구":  "24030",
		"북구":  "24040",
		"광산구": "24050",
	},
	"대전광역시": {
		"동구":  "25010",
		"중구":  "25020",
		"서구":  "25030",
		"유성구": "25040",
		"대덕구": "25050",
	},
	"울산광역시": {
		"중구":  "26010",
		"남구":  "26020",
		"동구":  "26030",
		"북구":  "26040",
		"울주군": "26310",
	},
}

// DtlRegionCode returns the district code for sido and sigungu, or "" when
// the pair is unknown.
func DtlRegionCode(sido, sigungu string) string {
	return dtlRegionCodes[strings.TrimSpace(sido)][strings.TrimSpace(sigungu)]
}
