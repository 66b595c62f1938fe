package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	distiller "github.com/tphakala/go-echo-distiller"
	"github.com/tphakala/go-echo-distiller/internal/dashboard"
	"github.com/tphakala/go-echo-distiller/internal/runstore"
	"github.com/tphakala/go-echo-distiller/internal/wavexport"
)

const (
	barWidth   = 40
	indentUnit = "  "
)

// cliOptions holds parsed command-line flags.
type cliOptions struct {
	params distiller.Params

	storePath   string
	compression string
	save        bool
	history     int

	wavRaw       string
	wavDistilled string
	wavRate      int

	observe int
	verbose bool

	// explicitParams is set when any echo parameter flag was given.
	explicitParams bool

	// logger overrides the flag-derived logger in tests.
	logger *zap.Logger
}

// historyOnly reports whether the run should only list saved runs.
func (o *cliOptions) historyOnly() bool {
	return o.history > 0 && !o.save && o.wavRaw == "" && o.wavDistilled == "" && o.observe == 0 && !o.explicitParams
}

func parseArgs(args []string, stderr io.Writer) (*cliOptions, error) {
	def := distiller.DefaultParams()
	opts := &cliOptions{}

	fs := flag.NewFlagSet("echo-distill", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.IntVar(&opts.params.Points, "points", def.Points, "Samples in the echo (512, 1024 or 2048)")
	fs.IntVar(&opts.params.Depth, "depth", def.Depth, "Echo layers, 2 to 10")
	fs.Float64Var(&opts.params.Resonance, "resonance", def.Resonance, "Resonance, 0.1 to 1.0")
	fs.Float64Var(&opts.params.Decoherence, "decoherence", def.Decoherence, "Decoherence, 0.0 to 1.0")
	fs.Int64Var(&opts.params.Seed, "seed", def.Seed, "Noise seed, 0 to 999999")
	fs.IntVar(&opts.params.Iterations, "iterations", def.Iterations, "Distillation iterations, 1 to 8")

	fs.StringVar(&opts.storePath, "store", "", "Parquet file holding saved runs")
	fs.StringVar(&opts.compression, "compression", "snappy", "Store compression: snappy, gzip, zstd")
	fs.BoolVar(&opts.save, "save", false, "Save this run to the store")
	fs.IntVar(&opts.history, "history", 0, "List the N most recent saved runs")

	fs.StringVar(&opts.wavRaw, "wav-raw", "", "Write the raw echo as WAV")
	fs.StringVar(&opts.wavDistilled, "wav-distilled", "", "Write the distilled echo as WAV")
	fs.IntVar(&opts.wavRate, "wav-rate", wavexport.DefaultSampleRate, "WAV sample rate in Hz")

	fs.IntVar(&opts.observe, "observe", 0, "Drive the mutation session N times and print its structure")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose (debug) logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "points", "depth", "resonance", "decoherence", "seed", "iterations":
			opts.explicitParams = true
		}
	})

	if (opts.save || opts.history > 0) && opts.storePath == "" {
		return nil, fmt.Errorf("-save and -history need -store")
	}
	if opts.history < 0 || opts.observe < 0 {
		return nil, fmt.Errorf("-history and -observe must not be negative")
	}

	return opts, nil
}

func printView(w io.Writer, v *dashboard.View) {
	p := v.Params
	m := v.Metrics
	fmt.Fprintf(w, "echo: points=%d depth=%d resonance=%.2f decoherence=%.2f iterations=%d seed=%d\n",
		p.Points, p.Depth, p.Resonance, p.Decoherence, p.Iterations, p.Seed)
	fmt.Fprintf(w, "  stages: %s\n", strings.Join(v.Stages, " -> "))
	fmt.Fprintf(w, "  coherence ratio: %.4f\n", m.CoherenceRatio)
	fmt.Fprintf(w, "  spectral focus:  %.4f\n", m.SpectralFocus)
	fmt.Fprintf(w, "  phase stability: %.4f\n", m.PhaseStability)
	fmt.Fprintf(w, "  gate: %d of %d bins above 0.5, peak bin %d (%.3f)\n",
		v.PassingBins, len(v.Gate), v.PeakBin, v.PeakGate)
}

func printHistory(w io.Writer, recs []runstore.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "no saved runs")
		return
	}
	fmt.Fprintf(w, "%-27s %6s %5s %5s %5s %4s %8s %8s %8s\n",
		"created_at", "seed", "depth", "res", "deco", "iter", "coh", "focus", "phase")
	for _, r := range recs {
		fmt.Fprintf(w, "%-27s %6d %5d %5.2f %5.2f %4d %8.4f %8.4f %8.4f\n",
			r.CreatedAt, r.Seed, r.Depth, r.Resonance, r.Decoherence, r.Iterations,
			r.CoherenceRatio, r.SpectralFocus, r.PhaseStability)
	}
}

func printLayout(w io.Writer, l dashboard.Layout) {
	fmt.Fprintln(w, l.Heading)
	for _, p := range l.Panels {
		printPanel(w, p, 1)
	}
	if l.ShowProgress {
		filled := int(l.Progress * barWidth)
		fmt.Fprintf(w, "%sresonance [%s%s] %.3f\n", indentUnit,
			strings.Repeat("#", filled), strings.Repeat(".", barWidth-filled), l.Progress)
	}
	if l.Core != nil {
		fmt.Fprintf(w, "%score: resonance=%.3f observations=%d stage=%d\n",
			indentUnit, l.Core.Resonance, l.Core.Observations, l.Core.Stage)
	}
}

func printPanel(w io.Writer, p dashboard.Panel, level int) {
	indent := strings.Repeat(indentUnit, level)
	if p.Caption != "" {
		fmt.Fprintf(w, "%s[%s]\n", indent, p.Caption)
	}
	for _, c := range p.Cells {
		fmt.Fprintf(w, "%s%s %.3f density %.2f\n", indent, c.Label, c.Fragment, c.Density)
	}
	for _, n := range p.Nested {
		printPanel(w, n, level+1)
	}
}

func printEvents(w io.Writer, events []dashboard.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "no observations yet")
		return
	}
	for _, e := range events {
		fmt.Fprintf(w, "- %s\n", e)
	}
}
