package usecase

import (
	"context"
	"fmt"

	"presellgo/internal/domain"
	"presellgo/pkg/logger"
	"presellgo/pkg/metrics"
)

// ResolutionStep identifies which lookup in the chain produced a hit.
type ResolutionStep string

const (
	StepLocalizedSlug ResolutionStep = "localized_slug"
	StepVerticalHint  ResolutionStep = "vertical_hint"
	StepBareSlug      ResolutionStep = "bare_slug"
	StepVerticalScan  ResolutionStep = "vertical_scan"
)

// Resolution is a successful product lookup.
type Resolution struct {
	Record domain.ProductRecord
	Key    domain.StorageKey
	Step   ResolutionStep
}

// ProductResolver executes the deterministic lookup chain used on every
// page request.
type ProductResolver struct {
	store   domain.ConfigStore
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewProductResolver(store domain.ConfigStore, logger *logger.Logger, metrics *metrics.Metrics) *ProductResolver {
	return &ProductResolver{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Resolve fetches the campaign document and runs the lookup chain.
// Failures degrade through the store's defaults, so the only error is
// domain.ErrNotFound.
func (r *ProductResolver) Resolve(ctx context.Context, rawSlug, locale, verticalHint string) (*Resolution, error) {
	cfg := r.store.Config(ctx)

	res, err := r.ResolveAgainst(cfg, rawSlug, locale, verticalHint)
	if err != nil {
		r.metrics.RecordResolution("none", "miss")
		r.logger.WithContext(ctx).WithFields(map[string]any{
			"slug":   rawSlug,
			"locale": locale,
			"hint":   verticalHint,
		}).Info("Product not resolved")
		return nil, err
	}

	r.metrics.RecordResolution(string(res.Step), "hit")
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"slug": rawSlug,
		"key":  res.Key.String(),
		"step": string(res.Step),
	}).Debug("Product resolved")
	return res, nil
}

// ResolveAgainst runs the chain against an already-fetched document.
//
// The order is load-bearing: localized and hinted keys shadow global
// ones, and the explicit hint shadows the brute-force scan, so two
// verticals reusing a slug never leak into each other. Each step is a
// single map lookup; the first key hit ends the chain, and an inactive
// hit fails resolution rather than falling through.
func (r *ProductResolver) ResolveAgainst(cfg *domain.CampaignConfig, rawSlug, locale, verticalHint string) (*Resolution, error) {
	hit, ok := lookup(cfg, rawSlug, locale, verticalHint)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, rawSlug)
	}
	if !hit.Record.IsActive() {
		return nil, fmt.Errorf("%w: %s is not active", domain.ErrNotFound, rawSlug)
	}
	return hit, nil
}

func lookup(cfg *domain.CampaignConfig, rawSlug, locale, verticalHint string) (*Resolution, bool) {
	// 1. Localized legacy form: bare "<slug>-<locale>".
	if locale != "" {
		key := domain.BareKey(rawSlug + "-" + locale)
		if record, ok := cfg.Products[key.String()]; ok {
			return &Resolution{Record: record, Key: key, Step: StepLocalizedSlug}, true
		}
	}

	// 2. Vertical hint from the request host.
	if verticalHint != "" {
		key := domain.QualifiedKey(domain.Vertical(verticalHint), rawSlug)
		if record, ok := cfg.Products[key.String()]; ok {
			return &Resolution{Record: record, Key: key, Step: StepVerticalHint}, true
		}
	}

	// 3. Global legacy fallback, no vertical qualification.
	bare := domain.BareKey(rawSlug)
	if record, ok := cfg.Products[bare.String()]; ok {
		return &Resolution{Record: record, Key: bare, Step: StepBareSlug}, true
	}

	// 4. Brute-force scan over the known verticals.
	for _, vertical := range domain.KnownVerticals() {
		if string(vertical) == verticalHint {
			continue
		}
		key := domain.QualifiedKey(vertical, rawSlug)
		if record, ok := cfg.Products[key.String()]; ok {
			return &Resolution{Record: record, Key: key, Step: StepVerticalScan}, true
		}
	}

	return nil, false
}
