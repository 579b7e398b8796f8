// Package cities is the static station/airport directory. The provider uses
// the same code for a city's train station and its airport, so one table
// serves both search kinds.
package cities

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// City is one entry in the directory.
type City struct {
	Code   string
	NameEN string
	NameFA string
}

// Name returns the display name for the given locale, falling back to Farsi.
func (c City) Name(locale string) string {
	if locale == "en" {
		return c.NameEN
	}
	return c.NameFA
}

// MatchThreshold is the minimum similarity score (out of 100) for a fuzzy
// match to be accepted.
const MatchThreshold = 80

var directory = []City{
	{Code: "THR", NameEN: "Tehran", NameFA: "تهران"},
	{Code: "SYZ", NameEN: "Shiraz", NameFA: "شیراز"},
	{Code: "MHD", NameEN: "Mashhad", NameFA: "مشهد"},
	{Code: "IFN", NameEN: "Isfahan", NameFA: "اصفهان"},
	{Code: "TBZ", NameEN: "Tabriz", NameFA: "تبریز"},
	{Code: "AWZ", NameEN: "Ahvaz", NameFA: "اهواز"},
	{Code: "BND", NameEN: "Bandar Abbas", NameFA: "بندرعباس"},
	{Code: "KIH", NameEN: "Kish", NameFA: "کیش"},
	{Code: "YZD", NameEN: "Yazd", NameFA: "یزد"},
	{Code: "RAS", NameEN: "Rasht", NameFA: "رشت"},
}

// All returns the directory in a stable order.
func All() []City {
	out := make([]City, len(directory))
	copy(out, directory)
	return out
}

// ByCode looks a city up by its exact code, case-insensitively.
func ByCode(code string) (City, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range directory {
		if c.Code == code {
			return c, true
		}
	}
	return City{}, false
}

// Match resolves user input to a city: exact code first, then the best fuzzy
// match against codes and localized names, accepted at MatchThreshold.
func Match(query string) (City, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return City{}, false
	}
	if c, ok := ByCode(query); ok {
		return c, true
	}

	var best City
	bestScore := 0
	for _, c := range directory {
		for _, candidate := range []string{c.Code, c.NameEN, c.NameFA} {
			if score := similarity(query, candidate); score > bestScore {
				best, bestScore = c, score
			}
		}
	}
	if bestScore >= MatchThreshold {
		return best, true
	}
	return City{}, false
}

// similarity scores two strings 0..100 from their Levenshtein distance,
// case-insensitively.
func similarity(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 100
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return (longest - dist) * 100 / longest
}
