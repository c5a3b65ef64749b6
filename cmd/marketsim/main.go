package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"marketsim/internal/config"
	"marketsim/internal/dataset"
	"marketsim/internal/domain"
	"marketsim/internal/sim"
)

func main() {
	mode := flag.String("mode", "run", "run one simulation (run) or generate a labeled dataset (dataset)")
	runID := flag.Int64("run-id", 0, "run id for a single simulation")
	seed := flag.Int64("seed", 0, "master seed; 0 derives it from -run-id (run) or keeps BASE_SEED (dataset)")
	ticks := flag.Int64("ticks", 0, "tick count for a single simulation; 0 keeps the default")
	eventTick := flag.Int64("event-tick", 0, "schedule the information event at this tick; 0 leaves it unscheduled")
	runs := flag.Int("runs", 0, "number of dataset runs; 0 keeps NUM_RUNS")
	window := flag.Int64("window", 0, "dataset window size in ticks; 0 keeps WINDOW_SIZE")
	out := flag.String("out", "", "dataset output directory; empty keeps OUT_DIR")
	flag.Parse()

	gen, err := config.LoadGenerator()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(gen.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	switch *mode {
	case "run":
		cfg := config.DefaultRunConfig(*runID)
		cfg.Seed = *seed
		if *ticks > 0 {
			cfg.Ticks = *ticks
		}
		if *eventTick > 0 {
			cfg.EventTime = *eventTick
		}

		res, err := sim.Run(cfg, sugar)
		if err != nil {
			sugar.Fatalw("run_failed", "err", err)
		}
		printLedgers(res)
		printDepth(res)
		printSummary(res)

	case "dataset":
		if *runs > 0 {
			gen.NumRuns = *runs
		}
		if *window > 0 {
			gen.WindowSize = *window
		}
		if *out != "" {
			gen.OutDir = *out
		}
		if *seed != 0 {
			gen.BaseSeed = *seed
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ds, err := dataset.Generate(ctx, *gen, sugar)
		if err != nil {
			sugar.Fatalw("dataset_generation_failed", "err", err)
		}
		if err := ds.WriteCSV(gen.OutDir); err != nil {
			sugar.Fatalw("dataset_write_failed", "err", err)
		}
		sugar.Infow("dataset_written",
			"job_id", ds.JobID.String(),
			"dir", gen.OutDir,
			"agent_rows", len(ds.AgentRows),
			"window_rows", len(ds.WindowRows),
		)

	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n\n", *mode)
		flag.Usage()
		os.Exit(2)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func printLedgers(res *sim.Result) {
	lastMid := 100.0
	if n := len(res.Mids); n > 0 {
		lastMid = res.Mids[n-1]
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"agent", "type", "cash", "position", "equity", "trades", "illegal"})
	for _, a := range res.Agents {
		led := a.Ledger()
		meta := a.Meta()
		illegal := ""
		if meta.IsIllegal {
			illegal = meta.IllegalType
		}
		table.Append([]string{
			strconv.FormatInt(a.ID(), 10),
			meta.Type,
			domain.FormatPrice(led.Cash),
			strconv.FormatInt(led.Position, 10),
			domain.FormatPrice(led.Equity(lastMid)),
			strconv.Itoa(led.NumTrades()),
			illegal,
		})
	}
	table.SetCaption(true, "agent ledgers")
	table.Render()
}

func printDepth(res *sim.Result) {
	const levels = 5
	asks := res.Engine.TopAsks(levels)
	bids := res.Engine.TopBids(levels)
	if len(asks) == 0 && len(bids) == 0 {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"side", "price", "quantity", "orders"})
	// Ladder layout: asks farthest first, then bids best first.
	for i := len(asks) - 1; i >= 0; i-- {
		table.Append([]string{
			"ask",
			domain.FormatPrice(asks[i].Price),
			strconv.FormatInt(asks[i].TotalQuantity, 10),
			strconv.Itoa(asks[i].OrderCount),
		})
	}
	for _, lvl := range bids {
		table.Append([]string{
			"bid",
			domain.FormatPrice(lvl.Price),
			strconv.FormatInt(lvl.TotalQuantity, 10),
			strconv.Itoa(lvl.OrderCount),
		})
	}
	table.SetCaption(true, "closing book")
	table.Render()
}

func printSummary(res *sim.Result) {
	mid := "n/a"
	if n := len(res.Mids); n > 0 {
		mid = domain.FormatPrice(res.Mids[n-1])
	}
	book := "empty book"
	if bid, ok := res.Engine.BestBid(); ok {
		if ask, ok := res.Engine.BestAsk(); ok {
			book = fmt.Sprintf("book %s/%s", domain.FormatPrice(bid), domain.FormatPrice(ask))
		} else {
			book = fmt.Sprintf("book %s/-", domain.FormatPrice(bid))
		}
	} else if ask, ok := res.Engine.BestAsk(); ok {
		book = fmt.Sprintf("book -/%s", domain.FormatPrice(ask))
	}
	fmt.Printf("run %d: %d ticks, %d agents, %d trades, final mid %s, %s\n",
		res.Config.RunID, res.Config.Ticks, len(res.Agents), len(res.Trades), mid, book)
}
