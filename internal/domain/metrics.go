package domain

// EventType is a tracked page interaction.
type EventType string

const (
	EventView  EventType = "view"
	EventClick EventType = "click"
)

// IsValid reports whether the event names a known counter.
func (e EventType) IsValid() bool {
	return e == EventView || e == EventClick
}

// VariantCounters holds the monotonically non-decreasing counters for a
// single (slug, variant) pair.
type VariantCounters struct {
	Views  uint64 `json:"views"`
	Clicks uint64 `json:"clicks"`
}

// Add returns the pointwise sum of two counter pairs.
func (c VariantCounters) Add(other VariantCounters) VariantCounters {
	return VariantCounters{
		Views:  c.Views + other.Views,
		Clicks: c.Clicks + other.Clicks,
	}
}

// CampaignMetrics is the persisted metrics document:
// slug -> variant -> counters.
type CampaignMetrics map[string]map[string]VariantCounters

func NewCampaignMetrics() CampaignMetrics {
	return CampaignMetrics{}
}

// Record increments one counter, creating nested maps as needed.
func (m CampaignMetrics) Record(slug, variant string, event EventType) {
	variants, ok := m[slug]
	if !ok {
		variants = map[string]VariantCounters{}
		m[slug] = variants
	}

	counters := variants[variant]
	switch event {
	case EventView:
		counters.Views++
	case EventClick:
		counters.Clicks++
	}
	variants[variant] = counters
}

// Merge folds other into m by pointwise addition. Addition is commutative
// and associative, so buffers merged in any order converge on the same
// totals; counters never move backwards.
func (m CampaignMetrics) Merge(other CampaignMetrics) {
	for slug, variants := range other {
		for variant, counters := range variants {
			existing, ok := m[slug]
			if !ok {
				existing = map[string]VariantCounters{}
				m[slug] = existing
			}
			existing[variant] = existing[variant].Add(counters)
		}
	}
}

// Clone returns a deep copy of the document.
func (m CampaignMetrics) Clone() CampaignMetrics {
	out := make(CampaignMetrics, len(m))
	for slug, variants := range m {
		copied := make(map[string]VariantCounters, len(variants))
		for variant, counters := range variants {
			copied[variant] = counters
		}
		out[slug] = copied
	}
	return out
}

// Totals sums every counter in the document.
func (m CampaignMetrics) Totals() (views, clicks uint64) {
	for _, variants := range m {
		for _, counters := range variants {
			views += counters.Views
			clicks += counters.Clicks
		}
	}
	return views, clicks
}
