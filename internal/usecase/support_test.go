package usecase

import (
	"context"

	"presellgo/internal/domain"
	"presellgo/pkg/logger"
	"presellgo/pkg/metrics"
)

// promauto registers against the default registry, so the package's test
// binary shares a single Metrics instance.
var testMetrics = metrics.New()

func testLogger() *logger.Logger {
	return logger.New("fatal")
}

// fakeStore is an in-memory domain.ConfigStore. Reads hand out deep
// copies so service-side mutations only become visible through a save,
// matching the remote store's snapshot semantics.
type fakeStore struct {
	cfg            *domain.CampaignConfig
	metricsDoc     domain.CampaignMetrics
	saveConfigErr  error
	saveMetricsErr error

	configSaves  int
	metricsSaves int
}

func (f *fakeStore) Config(ctx context.Context) *domain.CampaignConfig {
	if f.cfg == nil {
		return domain.DefaultCampaignConfig()
	}
	return f.cfg.Clone()
}

func (f *fakeStore) SaveConfig(ctx context.Context, cfg *domain.CampaignConfig) error {
	if f.saveConfigErr != nil {
		return f.saveConfigErr
	}
	f.cfg = cfg.Clone()
	f.configSaves++
	return nil
}

func (f *fakeStore) Metrics(ctx context.Context) domain.CampaignMetrics {
	if f.metricsDoc == nil {
		return domain.NewCampaignMetrics()
	}
	return f.metricsDoc.Clone()
}

func (f *fakeStore) SaveMetrics(ctx context.Context, m domain.CampaignMetrics) error {
	if f.saveMetricsErr != nil {
		return f.saveMetricsErr
	}
	f.metricsDoc = m.Clone()
	f.metricsSaves++
	return nil
}
