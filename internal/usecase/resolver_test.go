package usecase

import (
	"context"
	"errors"
	"testing"

	"presellgo/internal/domain"
)

func testResolver(store domain.ConfigStore) *ProductResolver {
	return NewProductResolver(store, testLogger(), testMetrics)
}

func activeProduct(slug string, vertical domain.Vertical) domain.ProductRecord {
	return domain.ProductRecord{
		Slug:         slug,
		Name:         "Product " + slug,
		Vertical:     vertical,
		Status:       domain.StatusActive,
		AffiliateURL: "https://example.com/" + slug,
	}
}

func TestResolutionOrder(t *testing.T) {
	resolver := testResolver(nil)

	cfg := domain.DefaultCampaignConfig()
	cfg.Products["health:amino"] = activeProduct("amino", domain.VerticalHealth)
	cfg.Products["amino"] = activeProduct("amino", "")

	// hint present: the qualified key wins over the bare legacy one
	res, err := resolver.ResolveAgainst(cfg, "amino", "de", "health")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Step != StepVerticalHint {
		t.Fatalf("step = %q, want %q", res.Step, StepVerticalHint)
	}
	if res.Key.String() != "health:amino" {
		t.Fatalf("key = %q, want health:amino", res.Key.String())
	}

	// localized bare key shadows everything
	cfg.Products["amino-de"] = activeProduct("amino-de", "")
	res, err = resolver.ResolveAgainst(cfg, "amino", "de", "health")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Step != StepLocalizedSlug || res.Key.String() != "amino-de" {
		t.Fatalf("step = %q key = %q, want localized amino-de", res.Step, res.Key.String())
	}

	// no hint: bare key precedes the brute-force scan
	delete(cfg.Products, "amino-de")
	res, err = resolver.ResolveAgainst(cfg, "amino", "", "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Step != StepBareSlug || !res.Key.IsBare() {
		t.Fatalf("step = %q key = %q, want bare amino", res.Step, res.Key.String())
	}

	// only a qualified key left: the scan finds it
	delete(cfg.Products, "amino")
	res, err = resolver.ResolveAgainst(cfg, "amino", "", "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Step != StepVerticalScan || res.Key.String() != "health:amino" {
		t.Fatalf("step = %q key = %q, want scanned health:amino", res.Step, res.Key.String())
	}
}

func TestResolveScanSkipsHintedVertical(t *testing.T) {
	resolver := testResolver(nil)

	cfg := domain.DefaultCampaignConfig()
	cfg.Products["pets:treats"] = activeProduct("treats", domain.VerticalPets)

	// hint misses, bare misses, scan still finds the record elsewhere
	res, err := resolver.ResolveAgainst(cfg, "treats", "", "health")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Step != StepVerticalScan || res.Key.String() != "pets:treats" {
		t.Fatalf("step = %q key = %q", res.Step, res.Key.String())
	}
}

func TestResolveInactiveRecordFails(t *testing.T) {
	resolver := testResolver(nil)

	cfg := domain.DefaultCampaignConfig()
	paused := activeProduct("amino", domain.VerticalHealth)
	paused.Status = domain.StatusPaused
	cfg.Products["health:amino"] = paused
	// an active record further down the chain must NOT rescue the
	// lookup; the chain stops at the first key hit
	cfg.Products["pets:amino"] = activeProduct("amino", domain.VerticalPets)

	_, err := resolver.ResolveAgainst(cfg, "amino", "", "health")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for paused record, got %v", err)
	}
}

func TestResolveMiss(t *testing.T) {
	resolver := testResolver(nil)

	_, err := resolver.ResolveAgainst(domain.DefaultCampaignConfig(), "missing", "en", "health")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveDegradesWithUnavailableStore(t *testing.T) {
	// the fake with no document behaves like an unreachable store:
	// reads degrade to the default (empty) config
	resolver := testResolver(&fakeStore{})

	_, err := resolver.Resolve(context.Background(), "amino", "en", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveFetchesDocument(t *testing.T) {
	store := &fakeStore{cfg: domain.DefaultCampaignConfig()}
	store.cfg.Products["diy:drill"] = activeProduct("drill", domain.VerticalDIY)

	res, err := testResolver(store).Resolve(context.Background(), "drill", "", "diy")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Record.Slug != "drill" || res.Step != StepVerticalHint {
		t.Fatalf("resolved %+v", res)
	}
}
