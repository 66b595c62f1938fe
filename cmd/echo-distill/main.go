// Command echo-distill synthesizes a layered echo, distills it through the
// adaptive spectral gate and reports the coherence metrics.
//
// Usage:
//
//	echo-distill -depth 6 -resonance 0.8 -seed 7
//	echo-distill -store runs.parquet -save               # persist this run
//	echo-distill -store runs.parquet -history 10         # list saved runs
//	echo-distill -wav-raw raw.wav -wav-distilled out.wav # audition both signals
//	echo-distill -observe 12                             # drive the mutation session
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tphakala/go-echo-distiller/internal/dashboard"
	"github.com/tphakala/go-echo-distiller/internal/logging"
	"github.com/tphakala/go-echo-distiller/internal/runstore"
	"github.com/tphakala/go-echo-distiller/internal/wavexport"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseArgs(args, os.Stderr)
	if err != nil {
		return err
	}

	logger := opts.logger
	if logger == nil {
		logger = logging.New(opts.verbose)
	}
	defer func() { _ = logger.Sync() }()

	var store *runstore.Store
	if opts.storePath != "" {
		store, err = runstore.Open(opts.storePath,
			runstore.WithLogger(logger.Named("runstore")),
			runstore.WithCompression(opts.compression),
		)
		if err != nil {
			return err
		}
	}

	dashOpts := []dashboard.Option{dashboard.WithLogger(logger.Named("dashboard"))}
	if store != nil {
		dashOpts = append(dashOpts, dashboard.WithStore(store))
	}
	dash := dashboard.New(dashOpts...)

	if opts.historyOnly() {
		return showHistory(ctx, dash, stdout, opts.history)
	}

	start := time.Now()
	view, err := dash.Render(opts.params)
	if err != nil {
		return err
	}
	logger.Debug("distillation complete", zap.Duration("elapsed", time.Since(start)))

	printView(stdout, view)

	if opts.wavRaw != "" {
		if err := wavexport.WriteFile(opts.wavRaw, view.Raw, opts.wavRate, wavexport.BitDepth16); err != nil {
			return fmt.Errorf("raw echo: %w", err)
		}
		fmt.Fprintf(stdout, "wrote raw echo to %s\n", opts.wavRaw)
	}
	if opts.wavDistilled != "" {
		if err := wavexport.WriteFile(opts.wavDistilled, view.Distilled, opts.wavRate, wavexport.BitDepth16); err != nil {
			return fmt.Errorf("distilled echo: %w", err)
		}
		fmt.Fprintf(stdout, "wrote distilled echo to %s\n", opts.wavDistilled)
	}

	if opts.save {
		rec, err := dash.Save(ctx, view)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "saved run at %s\n", rec.CreatedAt)
	}

	if opts.history > 0 {
		if err := showHistory(ctx, dash, stdout, opts.history); err != nil {
			return err
		}
	}

	if opts.observe > 0 {
		s := dashboard.NewSession(opts.params.Seed)
		for range opts.observe {
			s.Step(time.Now())
		}
		printLayout(stdout, s.Structure())
		printEvents(stdout, s.RecentHistory(dashboard.RecentHistoryLen))
	}

	return nil
}

func showHistory(ctx context.Context, dash *dashboard.Dashboard, w io.Writer, limit int) error {
	recs, err := dash.History(ctx, limit)
	if err != nil {
		return err
	}
	printHistory(w, recs)
	return nil
}
