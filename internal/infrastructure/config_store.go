package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"presellgo/internal/domain"
	"presellgo/pkg/logger"
)

const (
	configKey  = "campaign_config"
	metricsKey = "campaign_metrics"
)

// implements domain.ConfigStore over a remote key-value backend
//
// Reads degrade to typed in-process defaults on any failure; writes
// surface their errors so admin callers never report a silent success.
type RemoteConfigStore struct {
	kv     domain.KVClient
	logger *logger.Logger
}

// creates a new remote config store
func NewRemoteConfigStore(kv domain.KVClient, logger *logger.Logger) *RemoteConfigStore {
	return &RemoteConfigStore{
		kv:     kv,
		logger: logger,
	}
}

func (s *RemoteConfigStore) Config(ctx context.Context) *domain.CampaignConfig {
	data, err := s.kv.Get(ctx, configKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.logger.WithContext(ctx).WithError(err).Warn("Campaign config unavailable, using defaults")
		}
		return domain.DefaultCampaignConfig()
	}

	var cfg domain.CampaignConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("raw_bytes", len(data)).Warn("Campaign config malformed, using defaults")
		return domain.DefaultCampaignConfig()
	}

	if cfg.Products == nil {
		cfg.Products = map[string]domain.ProductRecord{}
	}
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = domain.DefaultCampaignConfig().DefaultLang
	}

	return &cfg
}

func (s *RemoteConfigStore) SaveConfig(ctx context.Context, cfg *domain.CampaignConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign config: %w", err)
	}

	if err := s.kv.Set(ctx, configKey, data); err != nil {
		return fmt.Errorf("failed to persist campaign config: %w", err)
	}

	s.logger.WithContext(ctx).WithField("products", len(cfg.Products)).Info("Persisted campaign config")
	return nil
}

func (s *RemoteConfigStore) Metrics(ctx context.Context) domain.CampaignMetrics {
	data, err := s.kv.Get(ctx, metricsKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.logger.WithContext(ctx).WithError(err).Warn("Campaign metrics unavailable, using empty document")
		}
		return domain.NewCampaignMetrics()
	}

	var m domain.CampaignMetrics
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("raw_bytes", len(data)).Warn("Campaign metrics malformed, using empty document")
		return domain.NewCampaignMetrics()
	}

	if m == nil {
		m = domain.NewCampaignMetrics()
	}
	return m
}

func (s *RemoteConfigStore) SaveMetrics(ctx context.Context, m domain.CampaignMetrics) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign metrics: %w", err)
	}

	if err := s.kv.Set(ctx, metricsKey, data); err != nil {
		return fmt.Errorf("failed to persist campaign metrics: %w", err)
	}

	return nil
}
