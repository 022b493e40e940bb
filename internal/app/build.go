// Package app assembles the service from its parts so both the server
// binary and tests construct the same object graph.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scamshield-app/scamshield/internal/analysis"
	"github.com/scamshield-app/scamshield/internal/blocklist"
	"github.com/scamshield-app/scamshield/internal/config"
	"github.com/scamshield-app/scamshield/internal/httpapi"
	"github.com/scamshield-app/scamshield/internal/observability"
	"github.com/scamshield-app/scamshield/internal/pii"
	"github.com/scamshield-app/scamshield/internal/reports"
	"github.com/scamshield-app/scamshield/internal/scoring"
)

type BuildResult struct {
	Config    config.Config
	API       *httpapi.Server
	Engine    *analysis.Analyzer
	Blocklist blocklist.Store
	Reports   reports.Store
	Metrics   *observability.Metrics

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	extraDeny, err := pii.LoadDenyListFile(cfg.NameDenyListPath)
	if err != nil {
		return nil, fmt.Errorf("name deny list init failed: %w", err)
	}
	scrubber := pii.NewScrubber(pii.Config{ExtraNameDenyList: extraDeny})

	hardBlock := analysis.DefaultHardBlockCategories
	if cfg.HardBlockBankAccounts {
		hardBlock = append([]pii.Category{}, hardBlock...)
		hardBlock = append(hardBlock, pii.CategoryBankAccount, pii.CategoryRoutingNumber)
	}

	engine := analysis.New(scrubber, scoring.NewScorer(), analysis.Config{
		HardBlockCategories: hardBlock,
		Observer: func(stage string, d time.Duration) {
			metrics.ObserveScanStage(stage, d)
		},
	})

	blockStore, err := blocklist.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("blocklist store init failed: %w", err)
	}

	reportStore, err := reports.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = blockStore.Close()
		return nil, fmt.Errorf("report store init failed: %w", err)
	}

	api := httpapi.New(cfg, engine, blockStore, reportStore, metrics)

	cleanup := func() error {
		var errs []string
		if err := reportStore.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		if err := blockStore.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil
	}

	return &BuildResult{
		Config:    cfg,
		API:       api,
		Engine:    engine,
		Blocklist: blockStore,
		Reports:   reportStore,
		Metrics:   metrics,
		Cleanup:   cleanup,
	}, nil
}
