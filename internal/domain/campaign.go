package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type Vertical string

const (
	VerticalHealth  Vertical = "health"
	VerticalDIY     Vertical = "diy"
	VerticalGadgets Vertical = "gadgets"
	VerticalFinance Vertical = "finance"
	VerticalDating  Vertical = "dating"
	VerticalPets    Vertical = "pets"
	VerticalOther   Vertical = "other"
)

// KnownVerticals returns every routable vertical in resolver scan order.
func KnownVerticals() []Vertical {
	return []Vertical{
		VerticalHealth,
		VerticalDIY,
		VerticalGadgets,
		VerticalFinance,
		VerticalDating,
		VerticalPets,
		VerticalOther,
	}
}

// IsKnown reports whether v is one of the routable verticals.
func (v Vertical) IsKnown() bool {
	for _, known := range KnownVerticals() {
		if v == known {
			return true
		}
	}
	return false
}

// IsSpecific reports whether v can be used as a storage prefix. Catch-all
// values never qualify, so subdomain routing always has a real home.
func (v Vertical) IsSpecific() bool {
	switch v {
	case "", VerticalOther, "general", "undefined", "null":
		return false
	}
	return v.IsKnown()
}

type ProductStatus string

const (
	StatusActive ProductStatus = "active"
	StatusPaused ProductStatus = "paused"
)

// placeholder names left behind by an unfinished dashboard draft; they
// must never reach the persisted document
var placeholderNames = []string{"Untitled Product", "New Product"}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type ProductRecord struct {
	Slug     string        `json:"slug"`
	Name     string        `json:"name"`
	Vertical Vertical      `json:"vertical"`
	Language string        `json:"language"`
	Status   ProductStatus `json:"status"`

	// content and tracking fields, opaque to the config core
	Headline     string   `json:"headline,omitempty"`
	Subheadline  string   `json:"subheadline,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
	CTAText      string   `json:"cta_text,omitempty"`
	AffiliateURL string   `json:"affiliate_url"`
	PixelID      string   `json:"pixel_id,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// IsActive reports whether the record may be served on a page request.
func (p ProductRecord) IsActive() bool {
	return p.Status == StatusActive
}

// Validate rejects records that would corrupt the campaign document.
// A failing record is never partially persisted.
func (p ProductRecord) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return &InvalidRecordError{Field: "name", Reason: "name is required"}
	}
	for _, placeholder := range placeholderNames {
		if name == placeholder {
			return &InvalidRecordError{Field: "name", Reason: fmt.Sprintf("placeholder name %q is not allowed", name)}
		}
	}
	if p.Slug == "" {
		return &InvalidRecordError{Field: "slug", Reason: "slug is required"}
	}
	if !slugPattern.MatchString(p.Slug) {
		return &InvalidRecordError{Field: "slug", Reason: fmt.Sprintf("slug %q must match %s", p.Slug, slugPattern.String())}
	}
	if strings.TrimSpace(p.AffiliateURL) == "" {
		return &InvalidRecordError{Field: "affiliate_url", Reason: "affiliate_url is required"}
	}
	return nil
}

// CampaignConfig is the single persisted campaign document. Products are
// addressed by storage key; insertion order is irrelevant.
type CampaignConfig struct {
	ActiveProductSlug string                   `json:"active_product_slug"`
	DefaultLang       string                   `json:"default_lang"`
	Products          map[string]ProductRecord `json:"products"`
}

// DefaultCampaignConfig is the in-process fallback used whenever the
// remote document is missing or unreadable. It is rebuilt on every call
// so callers can mutate their copy freely.
func DefaultCampaignConfig() *CampaignConfig {
	return &CampaignConfig{
		ActiveProductSlug: "",
		DefaultLang:       "en",
		Products:          map[string]ProductRecord{},
	}
}

// Clone returns a deep copy of the document.
func (c *CampaignConfig) Clone() *CampaignConfig {
	out := &CampaignConfig{
		ActiveProductSlug: c.ActiveProductSlug,
		DefaultLang:       c.DefaultLang,
		Products:          make(map[string]ProductRecord, len(c.Products)),
	}
	for key, record := range c.Products {
		if record.Bullets != nil {
			record.Bullets = append([]string(nil), record.Bullets...)
		}
		out.Products[key] = record
	}
	return out
}

// FindBySlug scans the products map for any record stored under the given
// slug, regardless of vertical prefix, and returns the storage key it was
// found under. A key with a specific vertical wins over bare or ghost
// variants of the same slug, so callers always see the canonical record
// when one exists.
func (c *CampaignConfig) FindBySlug(slug string) (StorageKey, ProductRecord, bool) {
	var (
		ghostKey    StorageKey
		ghostRecord ProductRecord
		found       bool
	)
	for raw, record := range c.Products {
		key := ParseStorageKey(raw)
		if key.Slug != slug {
			continue
		}
		if key.Vertical.IsSpecific() {
			return key, record, true
		}
		if !found {
			ghostKey, ghostRecord, found = key, record, true
		}
	}
	return ghostKey, ghostRecord, found
}
