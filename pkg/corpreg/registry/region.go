package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Region identifies an administrative fetch scope: a two-digit prefecture
// code, or All for a nationwide fetch.
type Region string

// All selects every prefecture.
const All Region = "ALL"

// prefectures maps prefecture codes to names (JIS X 0401 order).
var prefectures = map[Region]string{
	"01": "Hokkaido", "02": "Aomori", "03": "Iwate", "04": "Miyagi",
	"05": "Akita", "06": "Yamagata", "07": "Fukushima", "08": "Ibaraki",
	"09": "Tochigi", "10": "Gunma", "11": "Saitama", "12": "Chiba",
	"13": "Tokyo", "14": "Kanagawa", "15": "Niigata", "16": "Toyama",
	"17": "Ishikawa", "18": "Fukui", "19": "Yamanashi", "20": "Nagano",
	"21": "Gifu", "22": "Shizuoka", "23": "Aichi", "24": "Mie",
	"25": "Shiga", "26": "Kyoto", "27": "Osaka", "28": "Hyogo",
	"29": "Nara", "30": "Wakayama", "31": "Tottori", "32": "Shimane",
	"33": "Okayama", "34": "Hiroshima", "35": "Yamaguchi", "36": "Tokushima",
	"37": "Kagawa", "38": "Ehime", "39": "Kochi", "40": "Fukuoka",
	"41": "Saga", "42": "Nagasaki", "43": "Kumamoto", "44": "Oita",
	"45": "Miyazaki", "46": "Kagoshima", "47": "Okinawa",
}

// ParseRegion validates a region selector. Accepts a two-digit prefecture
// code or the "all" sentinel in any case.
func ParseRegion(s string) (Region, error) {
	up := Region(strings.ToUpper(strings.TrimSpace(s)))
	if up == All {
		return All, nil
	}
	if _, ok := prefectures[up]; ok {
		return up, nil
	}
	return "", fmt.Errorf("unknown region %q (want 01..47 or ALL)", s)
}

// Name returns the romanized prefecture name, or "All" for the sentinel.
func (r Region) Name() string {
	if r == All {
		return "All"
	}
	return prefectures[r]
}

// IsAll reports whether the region is the nationwide sentinel.
func (r Region) IsAll() bool {
	return r == All
}

// AllRegions returns every prefecture code in ascending order.
func AllRegions() []Region {
	out := make([]Region, 0, len(prefectures))
	for code := range prefectures {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
