package utils

import "testing"

func TestNormalizeIndustry(t *testing.T) {
	cases := map[string]string{
		"  Technology ":          "Technology",
		"Financial   Services":   "Financial Services",
		"\tHealthcare\n":         "Healthcare",
		"Media & Entertainment ": "Media & Entertainment",
	}
	for in, want := range cases {
		if got := NormalizeIndustry(in); got != want {
			t.Fatalf("NormalizeIndustry(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIndustrySlug(t *testing.T) {
	if got := IndustrySlug("  Financial   Services "); got != "financial-services" {
		t.Fatalf("unexpected slug: %q", got)
	}
	if got := IndustrySlug("Technology"); got != "technology" {
		t.Fatalf("unexpected slug: %q", got)
	}
}
