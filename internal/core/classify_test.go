package core

import "testing"

func TestClassifySegment(t *testing.T) {
	cases := []struct {
		cnae string
		want string
	}{
		{"62.01-5-01", SegmentServices},
		{"6201501", SegmentServices},
		{"01.13-0-00", SegmentAgro},
		{"10.91-1-01", SegmentIndustry},
		{"35.11-5-01", SegmentIndustry},
		{"41.20-4-00", SegmentConstruction},
		{"47.11-3-02", SegmentCommerce},
		{"86.30-5-03", SegmentServices},
		{"", SegmentUnknown},
		{"x", SegmentUnknown},
		{"00.00-0-00", SegmentUnknown},
	}
	for i, tc := range cases {
		if got := ClassifySegment(tc.cnae); got != tc.want {
			t.Fatalf("case %d (%q): got %q, want %q", i, tc.cnae, got, tc.want)
		}
	}
}
