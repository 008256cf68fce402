package usecase

import (
	"fmt"
	"strings"
	"time"

	"presellgo/internal/domain"
	"presellgo/pkg/logger"
	"presellgo/pkg/metrics"
)

// KeyAllocator turns a desired (name, vertical, slug) into a safe, unique
// storage key against a campaign document snapshot held by the caller.
// Allocation is pure in-memory computation; the caller persists the
// snapshot afterwards.
type KeyAllocator struct {
	defaultVertical domain.Vertical
	logger          *logger.Logger
	metrics         *metrics.Metrics
	now             func() time.Time
}

// Allocation is the outcome of a key allocation.
type Allocation struct {
	Key domain.StorageKey

	// Existing is set when the slug already lives under a different
	// specific vertical. Key then points at that record and the caller
	// must not create a duplicate.
	Existing bool

	// Pruned lists the ghost keys removed from the snapshot.
	Pruned []string
}

func NewKeyAllocator(defaultVertical domain.Vertical, logger *logger.Logger, metrics *metrics.Metrics) *KeyAllocator {
	if !defaultVertical.IsSpecific() {
		defaultVertical = domain.VerticalHealth
	}
	return &KeyAllocator{
		defaultVertical: defaultVertical,
		logger:          logger,
		metrics:         metrics,
		now:             time.Now,
	}
}

// NormalizeSlug lowercases the input and collapses every run of
// non-alphanumeric characters into a single hyphen.
func NormalizeSlug(raw string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// capSlugWords truncates slugs of more than three hyphen-delimited words
// down to the first two, keeping URLs short.
func capSlugWords(slug string) string {
	words := strings.Split(slug, "-")
	if len(words) > 3 {
		return strings.Join(words[:2], "-")
	}
	return slug
}

// CanonicalVertical maps catch-all vertical values to the safe default so
// subdomain routing always has a home. Explicit specific values pass
// through untouched.
func (a *KeyAllocator) CanonicalVertical(vertical domain.Vertical) domain.Vertical {
	if vertical.IsSpecific() {
		return vertical
	}
	return a.defaultVertical
}

// Allocate computes the storage key for a new record and prunes ghost
// variants of the slug from the snapshot. When the slug already exists
// under another specific vertical the existing key is returned instead
// and the snapshot is left untouched.
func (a *KeyAllocator) Allocate(cfg *domain.CampaignConfig, name string, vertical domain.Vertical, requestedSlug string) Allocation {
	slug := NormalizeSlug(requestedSlug)
	if slug == "" {
		slug = NormalizeSlug(name)
	}
	if slug == "" {
		slug = fmt.Sprintf("product-%d", a.now().Unix())
		a.metrics.RecordAllocation("generated")
	}
	slug = capSlugWords(slug)

	vert := a.CanonicalVertical(vertical)

	// Global uniqueness: a slug already homed under another specific
	// vertical must not be duplicated. Ghost-prefixed and bare forms do
	// not count; they get re-homed below.
	for raw := range cfg.Products {
		existing := domain.ParseStorageKey(raw)
		if existing.Slug != slug || !existing.Vertical.IsSpecific() {
			continue
		}
		if existing.Vertical != vert {
			a.metrics.RecordAllocation("existing")
			a.logger.WithFields(map[string]any{
				"slug":         slug,
				"requested":    string(vert),
				"existing_key": raw,
			}).Info("Slug already allocated under another vertical")
			return Allocation{Key: existing, Existing: true}
		}
	}

	// Same-vertical collision: disambiguate with a numeric suffix.
	candidate := domain.QualifiedKey(vert, slug)
	suffixed := false
	for n := 2; ; n++ {
		if _, taken := cfg.Products[candidate.String()]; !taken {
			break
		}
		candidate = domain.QualifiedKey(vert, fmt.Sprintf("%s-%d", slug, n))
		suffixed = true
	}
	if suffixed {
		a.metrics.RecordAllocation("suffixed")
	} else {
		a.metrics.RecordAllocation("allocated")
	}

	pruned := cfg.PruneGhosts(candidate.Slug, candidate)
	if len(pruned) > 0 {
		a.logger.WithFields(map[string]any{
			"slug":   candidate.Slug,
			"pruned": pruned,
		}).Info("Pruned ghost keys")
	}

	return Allocation{Key: candidate, Pruned: pruned}
}
