package core

import (
	"strconv"
	"strings"
)

// Business segments derived from the CNAE division (the first two digits
// of codes like "62.01-5-01").
const (
	SegmentAgro         = "agronegocio"
	SegmentIndustry     = "industria"
	SegmentConstruction = "construcao"
	SegmentCommerce     = "comercio"
	SegmentServices     = "servicos"
	SegmentUnknown      = "nao classificado"
)

type divisionRange struct {
	from, to int
	segment  string
}

// IBGE groups divisions into sections; this collapses them to the five
// buckets the contract reports use.
var cnaeSegments = []divisionRange{
	{1, 3, SegmentAgro},
	{5, 9, SegmentIndustry},   // extractive
	{10, 33, SegmentIndustry}, // manufacturing
	{35, 39, SegmentIndustry}, // utilities and waste
	{41, 43, SegmentConstruction},
	{45, 47, SegmentCommerce},
	{49, 99, SegmentServices},
}

// ClassifySegment maps a CNAE code to its business segment. It accepts the
// formatted shape ("62.01-5-01") as well as bare digits; anything without
// a leading two-digit division classifies as SegmentUnknown.
func ClassifySegment(cnae string) string {
	division, ok := cnaeDivision(cnae)
	if !ok {
		return SegmentUnknown
	}
	for _, r := range cnaeSegments {
		if division >= r.from && division <= r.to {
			return r.segment
		}
	}
	return SegmentUnknown
}

// cnaeDivision extracts the two-digit division from a CNAE code.
func cnaeDivision(cnae string) (int, bool) {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(cnae) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == 2 {
				break
			}
		}
	}
	if digits.Len() < 2 {
		return 0, false
	}
	division, err := strconv.Atoi(digits.String())
	if err != nil || division == 0 {
		return 0, false
	}
	return division, true
}
