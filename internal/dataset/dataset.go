// Package dataset generates labeled multi-run datasets for training
// detection models. One base RNG drives scenario sampling so a base
// seed reproduces the whole dataset run for run.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketsim/internal/config"
	"marketsim/internal/domain"
	"marketsim/internal/feature"
	"marketsim/internal/sim"
)

// RunTrade is an executed trade annotated with the run that produced it.
type RunTrade struct {
	RunID int64
	Trade domain.Trade
}

// RunSummary records the sampled scenario behind one run, so a dataset
// is traceable back to its generator inputs.
type RunSummary struct {
	RunID     int64
	Seed      int64
	Ticks     int64
	HasEvent  bool
	EventTime int64
	NumAgents int
	NumTrades int
}

// Dataset is the aggregated output of one generation job.
type Dataset struct {
	JobID      uuid.UUID
	AgentRows  []feature.AgentRow
	WindowRows []feature.WindowRow
	Trades     []RunTrade
	Runs       []RunSummary
}

// Generate samples cfg.NumRuns scenarios from one RNG seeded with
// cfg.BaseSeed, simulates each, and extracts agent- and window-level
// features. Cancelling ctx stops the job between runs; a partially
// generated dataset is never returned.
func Generate(ctx context.Context, cfg config.GeneratorConfig, logger *zap.SugaredLogger) (*Dataset, error) {
	ds := &Dataset{JobID: uuid.New()}

	if logger != nil {
		logger.Infow("dataset_generation_started",
			"job_id", ds.JobID.String(),
			"num_runs", cfg.NumRuns,
			"window_size", cfg.WindowSize,
			"base_seed", cfg.BaseSeed,
		)
	}

	rng := rand.New(rand.NewSource(cfg.BaseSeed))

	for runID := int64(0); runID < int64(cfg.NumRuns); runID++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dataset job %s: run %d: %w", ds.JobID, runID, err)
		}

		runCfg := config.SampleScenario(runID, rng)
		res, err := sim.Run(runCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("dataset job %s: %w", ds.JobID, err)
		}

		ds.AgentRows = append(ds.AgentRows, feature.ExtractAgentFeatures(res)...)
		ds.WindowRows = append(ds.WindowRows, feature.ExtractWindowFeatures(res, cfg.WindowSize)...)
		for _, tr := range res.Trades {
			ds.Trades = append(ds.Trades, RunTrade{RunID: runID, Trade: tr})
		}
		ds.Runs = append(ds.Runs, RunSummary{
			RunID:     runID,
			Seed:      runCfg.Seed,
			Ticks:     runCfg.Ticks,
			HasEvent:  runCfg.HasEvent,
			EventTime: runCfg.EventTime,
			NumAgents: len(res.Agents),
			NumTrades: len(res.Trades),
		})
	}

	if logger != nil {
		logger.Infow("dataset_generation_completed",
			"job_id", ds.JobID.String(),
			"runs", len(ds.Runs),
			"agent_rows", len(ds.AgentRows),
			"window_rows", len(ds.WindowRows),
			"trades", len(ds.Trades),
		)
	}

	return ds, nil
}

// WriteCSV writes agent_features.csv, window_features.csv, trades.csv
// and manifest.csv under dir, creating it if needed.
func (d *Dataset) WriteCSV(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	agents := make([][]string, 0, len(d.AgentRows)+1)
	agents = append(agents, feature.AgentHeader())
	for _, row := range d.AgentRows {
		agents = append(agents, row.Record())
	}
	if err := writeFile(filepath.Join(dir, "agent_features.csv"), agents); err != nil {
		return err
	}

	windows := make([][]string, 0, len(d.WindowRows)+1)
	windows = append(windows, feature.WindowHeader())
	for _, row := range d.WindowRows {
		windows = append(windows, row.Record())
	}
	if err := writeFile(filepath.Join(dir, "window_features.csv"), windows); err != nil {
		return err
	}

	trades := make([][]string, 0, len(d.Trades)+1)
	trades = append(trades, append([]string{"run_id"}, domain.TradeHeader()...))
	for _, tr := range d.Trades {
		trades = append(trades, append([]string{strconv.FormatInt(tr.RunID, 10)}, tr.Trade.Record()...))
	}
	if err := writeFile(filepath.Join(dir, "trades.csv"), trades); err != nil {
		return err
	}

	manifest := make([][]string, 0, len(d.Runs)+1)
	manifest = append(manifest, []string{
		"job_id", "run_id", "seed", "ticks", "has_event", "event_time", "num_agents", "num_trades",
	})
	for _, run := range d.Runs {
		manifest = append(manifest, []string{
			d.JobID.String(),
			strconv.FormatInt(run.RunID, 10),
			strconv.FormatInt(run.Seed, 10),
			strconv.FormatInt(run.Ticks, 10),
			strconv.FormatBool(run.HasEvent),
			strconv.FormatInt(run.EventTime, 10),
			strconv.Itoa(run.NumAgents),
			strconv.Itoa(run.NumTrades),
		})
	}
	return writeFile(filepath.Join(dir, "manifest.csv"), manifest)
}

func writeFile(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write dataset: %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write dataset: %s: %w", filepath.Base(path), err)
	}
	return nil
}
