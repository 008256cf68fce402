package domain

import (
	"reflect"
	"testing"
)

func TestParseStorageKey(t *testing.T) {
	cases := []struct {
		raw  string
		want StorageKey
	}{
		{"health:amino", StorageKey{Vertical: VerticalHealth, Slug: "amino"}},
		{"amino", StorageKey{Slug: "amino"}},
		{"undefined:amino", StorageKey{Vertical: "undefined", Slug: "amino"}},
		// older writers occasionally doubled prefixes; the slug is
		// always the segment after the last colon
		{"health:other:amino", StorageKey{Vertical: "health:other", Slug: "amino"}},
		{"", StorageKey{}},
	}

	for _, tc := range cases {
		if got := ParseStorageKey(tc.raw); got != tc.want {
			t.Fatalf("ParseStorageKey(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestStorageKeyString(t *testing.T) {
	if got := QualifiedKey(VerticalDIY, "drill").String(); got != "diy:drill" {
		t.Fatalf("qualified key string = %q", got)
	}
	if got := BareKey("drill").String(); got != "drill" {
		t.Fatalf("bare key string = %q", got)
	}
	if !BareKey("drill").IsBare() || QualifiedKey(VerticalDIY, "drill").IsBare() {
		t.Fatal("IsBare misreported")
	}
}

func TestGhostVariantsExcludeCanonical(t *testing.T) {
	canonical := QualifiedKey(VerticalHealth, "amino")
	got := GhostVariants("amino", canonical)
	want := []string{"other:amino", "undefined:amino", "null:amino", "amino"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ghost variants = %v, want %v", got, want)
	}

	// a record legitimately homed under "other" keeps its own key
	got = GhostVariants("amino", QualifiedKey(VerticalOther, "amino"))
	want = []string{"undefined:amino", "null:amino", "amino"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ghost variants with other canonical = %v, want %v", got, want)
	}
}

func TestPruneGhosts(t *testing.T) {
	cfg := &CampaignConfig{Products: map[string]ProductRecord{
		"health:amino":    {Slug: "amino"},
		"other:amino":     {Slug: "amino"},
		"undefined:amino": {Slug: "amino"},
		"amino":           {Slug: "amino"},
		"diy:drill":       {Slug: "drill"},
	}}

	removed := cfg.PruneGhosts("amino", QualifiedKey(VerticalHealth, "amino"))
	if len(removed) != 3 {
		t.Fatalf("expected 3 pruned keys, got %v", removed)
	}

	if _, ok := cfg.Products["health:amino"]; !ok {
		t.Fatal("canonical key was pruned")
	}
	if _, ok := cfg.Products["diy:drill"]; !ok {
		t.Fatal("unrelated key was pruned")
	}
	for _, ghost := range []string{"other:amino", "undefined:amino", "amino"} {
		if _, ok := cfg.Products[ghost]; ok {
			t.Fatalf("ghost key %q survived pruning", ghost)
		}
	}
}
