package usecase

import (
	"strings"
	"testing"
	"time"

	"presellgo/internal/domain"
)

func testAllocator() *KeyAllocator {
	return NewKeyAllocator(domain.VerticalHealth, testLogger(), testMetrics)
}

func configWith(keys ...string) *domain.CampaignConfig {
	cfg := domain.DefaultCampaignConfig()
	for _, key := range keys {
		parsed := domain.ParseStorageKey(key)
		cfg.Products[key] = domain.ProductRecord{Slug: parsed.Slug, Name: "X", Status: domain.StatusActive}
	}
	return cfg
}

func TestNormalizeSlug(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Amino Boost", "amino-boost"},
		{"  Amino!!Boost  ", "amino-boost"},
		{"AMINO", "amino"},
		{"déjà vu", "d-j-vu"},
		{"---", ""},
		{"already-fine-slug", "already-fine-slug"},
		{"a__b..c", "a-b-c"},
	}
	for _, tc := range cases {
		if got := NormalizeSlug(tc.in); got != tc.want {
			t.Fatalf("NormalizeSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAllocateCapsLongSlugs(t *testing.T) {
	alloc := testAllocator().Allocate(configWith(), "X", domain.VerticalHealth, "super-strong-amino-boost")
	if alloc.Key.Slug != "super-strong" {
		t.Fatalf("slug not capped: %q", alloc.Key.Slug)
	}

	// exactly three words survive untouched
	alloc = testAllocator().Allocate(configWith(), "X", domain.VerticalHealth, "super-amino-boost")
	if alloc.Key.Slug != "super-amino-boost" {
		t.Fatalf("three-word slug was capped: %q", alloc.Key.Slug)
	}
}

func TestAllocateDerivesSlugFromName(t *testing.T) {
	alloc := testAllocator().Allocate(configWith(), "Amino Boost", domain.VerticalHealth, "")
	if alloc.Key.String() != "health:amino-boost" {
		t.Fatalf("key = %q", alloc.Key.String())
	}
}

func TestAllocateGeneratesSlugWhenNothingUsable(t *testing.T) {
	a := testAllocator()
	a.now = func() time.Time { return time.Unix(1700000000, 0) }

	alloc := a.Allocate(configWith(), "!!!", domain.VerticalHealth, "???")
	if !strings.HasPrefix(alloc.Key.Slug, "product-") {
		t.Fatalf("expected generated slug, got %q", alloc.Key.Slug)
	}
	if alloc.Key.Slug != "product-1700000000" {
		t.Fatalf("generated slug = %q", alloc.Key.Slug)
	}
}

func TestAllocateFallsBackToDefaultVertical(t *testing.T) {
	for _, vertical := range []domain.Vertical{"", "other", "general", "undefined", "crypto"} {
		alloc := testAllocator().Allocate(configWith(), "X", vertical, "mitolyn")
		if alloc.Key.String() != "health:mitolyn" {
			t.Fatalf("vertical %q: key = %q, want health:mitolyn", vertical, alloc.Key.String())
		}
	}
}

func TestAllocateReturnsExistingKeyAcrossVerticals(t *testing.T) {
	cfg := configWith("health:mitolyn")

	alloc := testAllocator().Allocate(cfg, "X", domain.VerticalDIY, "mitolyn")
	if !alloc.Existing {
		t.Fatal("cross-vertical collision not detected")
	}
	if alloc.Key.String() != "health:mitolyn" {
		t.Fatalf("existing key = %q, want health:mitolyn", alloc.Key.String())
	}
	if _, ok := cfg.Products["diy:mitolyn"]; ok {
		t.Fatal("duplicate key appeared in snapshot")
	}
}

func TestAllocateSuffixesSameVerticalCollisions(t *testing.T) {
	cfg := configWith()
	a := testAllocator()

	first := a.Allocate(cfg, "Offer", domain.VerticalHealth, "offer")
	if first.Key.String() != "health:offer" {
		t.Fatalf("first key = %q", first.Key.String())
	}
	cfg.Products[first.Key.String()] = domain.ProductRecord{Slug: first.Key.Slug, Name: "Offer"}

	second := a.Allocate(cfg, "Offer", domain.VerticalHealth, "offer")
	if second.Key.String() != "health:offer-2" {
		t.Fatalf("second key = %q, want health:offer-2", second.Key.String())
	}
	cfg.Products[second.Key.String()] = domain.ProductRecord{Slug: second.Key.Slug, Name: "Offer"}

	third := a.Allocate(cfg, "Offer", domain.VerticalHealth, "offer")
	if third.Key.String() != "health:offer-3" {
		t.Fatalf("third key = %q, want health:offer-3", third.Key.String())
	}
}

func TestAllocatePrunesGhostKeys(t *testing.T) {
	cfg := configWith("other:amino", "undefined:amino", "amino")

	alloc := testAllocator().Allocate(cfg, "Amino", domain.VerticalHealth, "amino")
	if alloc.Existing {
		t.Fatal("ghost keys must not count as cross-vertical collisions")
	}
	if alloc.Key.String() != "health:amino" {
		t.Fatalf("key = %q", alloc.Key.String())
	}
	if len(alloc.Pruned) != 3 {
		t.Fatalf("pruned = %v, want 3 ghost keys", alloc.Pruned)
	}
	for _, ghost := range []string{"other:amino", "undefined:amino", "amino"} {
		if _, ok := cfg.Products[ghost]; ok {
			t.Fatalf("ghost key %q survived allocation", ghost)
		}
	}
}

func TestNewKeyAllocatorRejectsCatchAllDefault(t *testing.T) {
	a := NewKeyAllocator(domain.VerticalOther, testLogger(), testMetrics)
	alloc := a.Allocate(configWith(), "X", "", "slug")
	if alloc.Key.Vertical != domain.VerticalHealth {
		t.Fatalf("default vertical = %q, want health", alloc.Key.Vertical)
	}
}
