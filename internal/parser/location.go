package parser

import (
	"strings"
)

var regionAbbreviations = map[string]string{
	//canadian provinces and territories
	"Ontario":                   "ON",
	"Quebec":                    "QC",
	"British Columbia":          "BC",
	"Alberta":                   "AB",
	"Manitoba":                  "MB",
	"Saskatchewan":              "SK",
	"Nova Scotia":               "NS",
	"New Brunswick":             "NB",
	"Newfoundland and Labrador": "NL",
	"Prince Edward Island":      "PE",
	"Northwest Territories":     "NT",
	"Yukon":                     "YT",
	"Nunavut":                   "NU",

	//us states
	"Alabama":              "AL",
	"Alaska":               "AK",
	"Arizona":              "AZ",
	"Arkansas":             "AR",
	"California":           "CA",
	"Colorado":             "CO",
	"Connecticut":          "CT",
	"Delaware":             "DE",
	"District of Columbia": "DC",
	"Florida":              "FL",
	"Georgia":              "GA",
	"Hawaii":               "HI",
	"Idaho":                "ID",
	"Illinois":             "IL",
	"Indiana":              "IN",
	"Iowa":                 "IA",
	"Kansas":               "KS",
	"Kentucky":             "KY",
	"Louisiana":            "LA",
	"Maine":                "ME",
	"Maryland":             "MD",
	"Massachusetts":        "MA",
	"Michigan":             "MI",
	"Minnesota":            "MN",
	"Mississippi":          "MS",
	"Missouri":             "MO",
	"Montana":              "MT",
	"Nebraska":             "NE",
	"Nevada":               "NV",
	"New Hampshire":        "NH",
	"New Jersey":           "NJ",
	"New Mexico":           "NM",
	"New York":             "NY",
	"North Carolina":       "NC",
	"North Dakota":         "ND",
	"Ohio":                 "OH",
	"Oklahoma":             "OK",
	"Oregon":               "OR",
	"Pennsylvania":         "PA",
	"Rhode Island":         "RI",
	"South Carolina":       "SC",
	"South Dakota":         "SD",
	"Tennessee":            "TN",
	"Texas":                "TX",
	"Utah":                 "UT",
	"Vermont":              "VT",
	"Virginia":             "VA",
	"Washington":           "WA",
	"West Virginia":        "WV",
	"Wisconsin":            "WI",
	"Wyoming":              "WY",
}

// ShortenLocation turns "Toronto, Ontario, Canada" into "Toronto, ON".
// Unknown regions keep their name; anything past the second part is dropped.
func ShortenLocation(full string) string {
	parts := strings.Split(full, ",")
	if len(parts) < 2 {
		return full
	}

	city := strings.TrimSpace(parts[0])
	region := strings.TrimSpace(parts[1])
	if short, ok := regionAbbreviations[region]; ok {
		region = short
	}
	return city + ", " + region
}
