package domain

import "context"

// interface for the remote key-value backend
type KVClient interface {
	// Get returns the raw value for key, or ErrKeyNotFound when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// interface for campaign document access
//
// Reads never fail: a missing, unreachable, or unparseable document
// degrades to the in-process default so page rendering stays up. Writes
// surface storage errors to the caller.
type ConfigStore interface {
	Config(ctx context.Context) *CampaignConfig
	SaveConfig(ctx context.Context, cfg *CampaignConfig) error
	Metrics(ctx context.Context) CampaignMetrics
	SaveMetrics(ctx context.Context, m CampaignMetrics) error
}
