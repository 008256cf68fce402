package usecase

import (
	"context"
	"fmt"
	"time"

	"presellgo/internal/domain"
	"presellgo/pkg/logger"
	"presellgo/pkg/metrics"
)

// ProductInput is the admin write ingress: a full or partial product
// record plus the desired vertical.
type ProductInput struct {
	Slug         string               `json:"slug"`
	Name         string               `json:"name"`
	Vertical     domain.Vertical      `json:"vertical"`
	Language     string               `json:"language"`
	Status       domain.ProductStatus `json:"status"`
	Headline     string               `json:"headline"`
	Subheadline  string               `json:"subheadline"`
	Bullets      []string             `json:"bullets"`
	CTAText      string               `json:"cta_text"`
	AffiliateURL string               `json:"affiliate_url"`
	PixelID      string               `json:"pixel_id"`
}

// WriteResult reports the outcome of a create or save.
type WriteResult struct {
	Key     domain.StorageKey    `json:"key"`
	Record  domain.ProductRecord `json:"record"`
	Created bool                 `json:"created"`
	Pruned  []string             `json:"pruned,omitempty"`
}

// ProductService is the admin write path: validation, key allocation,
// and read-modify-write of the campaign document. Concurrent writes are
// last-write-wins by design; the document has no concurrency token.
type ProductService struct {
	store       domain.ConfigStore
	allocator   *KeyAllocator
	defaultLang string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewProductService(store domain.ConfigStore, allocator *KeyAllocator, defaultLang string, logger *logger.Logger, metrics *metrics.Metrics) *ProductService {
	return &ProductService{
		store:       store,
		allocator:   allocator,
		defaultLang: defaultLang,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
	}
}

// Create allocates a key and writes a new record. A cross-vertical slug
// collision short-circuits into the existing record instead of creating
// a duplicate; the caller should redirect to it.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*WriteResult, error) {
	cfg := s.store.Config(ctx)

	alloc := s.allocator.Allocate(cfg, input.Name, input.Vertical, input.Slug)
	if alloc.Existing {
		s.metrics.RecordAdminWrite("create", "exists")
		return &WriteResult{
			Key:     alloc.Key,
			Record:  cfg.Products[alloc.Key.String()],
			Created: false,
		}, nil
	}

	record := s.buildRecord(alloc.Key, input)
	if err := record.Validate(); err != nil {
		s.metrics.RecordAdminWrite("create", "invalid")
		return nil, err
	}

	cfg.Products[alloc.Key.String()] = record

	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		s.metrics.RecordAdminWrite("create", "error")
		return nil, fmt.Errorf("failed to create product %s: %w", alloc.Key.String(), err)
	}

	s.metrics.RecordAdminWrite("create", "ok")
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"key":    alloc.Key.String(),
		"pruned": len(alloc.Pruned),
	}).Info("Product created")

	return &WriteResult{Key: alloc.Key, Record: record, Created: true, Pruned: alloc.Pruned}, nil
}

// Save updates an existing record, re-deriving its canonical storage key
// and pruning ghost variants. An explicit vertical in the input takes
// priority over the stored one.
func (s *ProductService) Save(ctx context.Context, slug string, input ProductInput) (*WriteResult, error) {
	normalized := NormalizeSlug(slug)
	cfg := s.store.Config(ctx)

	oldKey, record, ok := cfg.FindBySlug(normalized)
	if !ok {
		s.metrics.RecordAdminWrite("save", "not_found")
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, normalized)
	}

	vertical := record.Vertical
	if input.Vertical.IsSpecific() {
		vertical = input.Vertical
	}
	canonical := domain.QualifiedKey(s.allocator.CanonicalVertical(vertical), normalized)

	applyInput(&record, input)
	record.Slug = normalized
	record.Vertical = canonical.Vertical
	record.UpdatedAt = s.now()

	if err := record.Validate(); err != nil {
		s.metrics.RecordAdminWrite("save", "invalid")
		return nil, err
	}

	if oldKey != canonical {
		delete(cfg.Products, oldKey.String())
	}
	cfg.Products[canonical.String()] = record
	pruned := cfg.PruneGhosts(normalized, canonical)

	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		s.metrics.RecordAdminWrite("save", "error")
		return nil, fmt.Errorf("failed to save product %s: %w", canonical.String(), err)
	}

	s.metrics.RecordAdminWrite("save", "ok")
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"key":     canonical.String(),
		"old_key": oldKey.String(),
		"pruned":  len(pruned),
	}).Info("Product saved")

	return &WriteResult{Key: canonical, Record: record, Pruned: pruned}, nil
}

// Delete removes the record and every ghost-key variant of its slug.
func (s *ProductService) Delete(ctx context.Context, slug string) error {
	normalized := NormalizeSlug(slug)
	cfg := s.store.Config(ctx)

	key, _, ok := cfg.FindBySlug(normalized)
	if !ok {
		s.metrics.RecordAdminWrite("delete", "not_found")
		return fmt.Errorf("%w: %s", domain.ErrNotFound, normalized)
	}

	delete(cfg.Products, key.String())
	cfg.PruneGhosts(normalized, key)
	if cfg.ActiveProductSlug == normalized {
		cfg.ActiveProductSlug = ""
	}

	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		s.metrics.RecordAdminWrite("delete", "error")
		return fmt.Errorf("failed to delete product %s: %w", key.String(), err)
	}

	s.metrics.RecordAdminWrite("delete", "ok")
	s.logger.WithContext(ctx).WithField("key", key.String()).Info("Product deleted")
	return nil
}

// Activate marks the product as the campaign's active one.
func (s *ProductService) Activate(ctx context.Context, slug string) error {
	normalized := NormalizeSlug(slug)
	cfg := s.store.Config(ctx)

	if _, _, ok := cfg.FindBySlug(normalized); !ok {
		s.metrics.RecordAdminWrite("activate", "not_found")
		return fmt.Errorf("%w: %s", domain.ErrNotFound, normalized)
	}

	cfg.ActiveProductSlug = normalized

	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		s.metrics.RecordAdminWrite("activate", "error")
		return fmt.Errorf("failed to activate product %s: %w", normalized, err)
	}

	s.metrics.RecordAdminWrite("activate", "ok")
	return nil
}

func (s *ProductService) buildRecord(key domain.StorageKey, input ProductInput) domain.ProductRecord {
	language := input.Language
	if language == "" {
		language = s.defaultLang
	}
	status := input.Status
	if status == "" {
		status = domain.StatusActive
	}

	now := s.now()
	return domain.ProductRecord{
		Slug:         key.Slug,
		Name:         input.Name,
		Vertical:     key.Vertical,
		Language:     language,
		Status:       status,
		Headline:     input.Headline,
		Subheadline:  input.Subheadline,
		Bullets:      input.Bullets,
		CTAText:      input.CTAText,
		AffiliateURL: input.AffiliateURL,
		PixelID:      input.PixelID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// applyInput overlays the non-empty input fields onto an existing record.
func applyInput(record *domain.ProductRecord, input ProductInput) {
	if input.Name != "" {
		record.Name = input.Name
	}
	if input.Language != "" {
		record.Language = input.Language
	}
	if input.Status != "" {
		record.Status = input.Status
	}
	if input.Headline != "" {
		record.Headline = input.Headline
	}
	if input.Subheadline != "" {
		record.Subheadline = input.Subheadline
	}
	if input.Bullets != nil {
		record.Bullets = input.Bullets
	}
	if input.CTAText != "" {
		record.CTAText = input.CTAText
	}
	if input.AffiliateURL != "" {
		record.AffiliateURL = input.AffiliateURL
	}
	if input.PixelID != "" {
		record.PixelID = input.PixelID
	}
}
