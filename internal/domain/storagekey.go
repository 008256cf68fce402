package domain

import "strings"

// StorageKey addresses a product inside CampaignConfig.Products. It
// serializes to the legacy wire form "vertical:slug", or a bare "slug"
// when no vertical is recorded, so existing documents stay readable.
type StorageKey struct {
	Vertical Vertical
	Slug     string
}

// BareKey builds an unqualified legacy key.
func BareKey(slug string) StorageKey {
	return StorageKey{Slug: slug}
}

// QualifiedKey builds a vertical-prefixed key.
func QualifiedKey(vertical Vertical, slug string) StorageKey {
	return StorageKey{Vertical: vertical, Slug: slug}
}

// ParseStorageKey splits a raw map key into its structured form. The slug
// is everything after the last colon; earlier colons belong to the
// prefix, matching how older writers built keys.
func ParseStorageKey(raw string) StorageKey {
	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return StorageKey{Slug: raw}
	}
	return StorageKey{
		Vertical: Vertical(raw[:idx]),
		Slug:     raw[idx+1:],
	}
}

func (k StorageKey) String() string {
	if k.Vertical == "" {
		return k.Slug
	}
	return string(k.Vertical) + ":" + k.Slug
}

// IsBare reports whether the key carries no vertical prefix.
func (k StorageKey) IsBare() bool {
	return k.Vertical == ""
}

// GhostVariants lists the stale key forms that must not coexist with the
// canonical key for a slug: catch-all and serialization-artifact
// prefixes, plus the bare legacy form once a qualified key exists.
func GhostVariants(slug string, canonical StorageKey) []string {
	candidates := []StorageKey{
		{Vertical: VerticalOther, Slug: slug},
		{Vertical: "undefined", Slug: slug},
		{Vertical: "null", Slug: slug},
		{Slug: slug},
	}

	var ghosts []string
	for _, candidate := range candidates {
		if candidate == canonical {
			continue
		}
		ghosts = append(ghosts, candidate.String())
	}
	return ghosts
}

// PruneGhosts deletes every ghost variant of slug from the document,
// keeping only the canonical key. Returns the keys removed.
func (c *CampaignConfig) PruneGhosts(slug string, canonical StorageKey) []string {
	var removed []string
	for _, ghost := range GhostVariants(slug, canonical) {
		if _, ok := c.Products[ghost]; ok {
			delete(c.Products, ghost)
			removed = append(removed, ghost)
		}
	}
	return removed
}
