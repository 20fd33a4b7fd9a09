package main

import (
	"fmt"

	"qbench"
	"qbench/bench"
	"qbench/cmd/qbench/internal/config"
	"qbench/models"

	"go.uber.org/zap"
)

// session wires one benchmark session: intake, selection, runner and the
// client they submit through
type session struct {
	cfg      *config.Config
	client   *qbench.Client
	catalog  models.Catalog
	intake   *bench.Intake
	selector *bench.Selector
	runner   *bench.Runner
	capping  bench.CapPolicy
	logger   *zap.Logger
}

func newSession(cfg *config.Config, logger *zap.Logger) (*session, error) {
	catalog, err := cfg.LoadCatalog()
	if err != nil {
		return nil, err
	}
	capping, err := cfg.CapPolicy()
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.EnvChartCap, err)
	}

	client := cfg.NewClient()
	intake := bench.NewIntake(
		bench.WithExtension(cfg.Extension),
		bench.WithIntakeLogger(logger),
	)
	selector := bench.NewSelector(catalog)
	runner := bench.NewRunner(client.Benchmark, intake, selector,
		bench.WithLogger(logger),
		bench.WithRunTimeout(cfg.Timeout),
	)

	logger.Debug("session ready",
		zap.String("base_url", client.GetBaseURL()),
		zap.Int("backends", len(catalog)),
		zap.Stringer("chart_cap", capping),
		zap.Duration("timeout", cfg.Timeout),
	)

	return &session{
		cfg:      cfg,
		client:   client,
		catalog:  catalog,
		intake:   intake,
		selector: selector,
		runner:   runner,
		capping:  capping,
		logger:   logger,
	}, nil
}

// rows reconciles a snapshot's results against the catalog
func (s *session) rows(snap bench.Snapshot) []bench.DisplayRow {
	if unmatched := bench.Unmatched(snap.Results, s.catalog); len(unmatched) > 0 {
		names := make([]string, 0, len(unmatched))
		for _, res := range unmatched {
			names = append(names, res.Backend)
		}
		s.logger.Warn("results for backends outside the catalog", zap.Strings("backends", names))
	}
	return bench.Reconcile(snap.Results, s.catalog)
}

// resolveBackend accepts a catalog id or label
func (s *session) resolveBackend(name string) (models.BackendID, error) {
	if b, ok := s.catalog.Lookup(models.BackendID(name)); ok {
		return b.ID, nil
	}
	if b, ok := s.catalog.Match(name); ok {
		return b.ID, nil
	}
	return "", fmt.Errorf("unknown backend %q (available: %v)", name, s.catalog.IDs())
}
