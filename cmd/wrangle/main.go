package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/google/uuid"

	"creditwrangle/pkg/dataprep"
	"creditwrangle/pkg/pipeline"
)

//
// ---------------------- CLI FLAGS ----------------------
//
// --plan           : YAML plan file. Keys it leaves out keep the built-in defaults
// --input          : Input CSV (overrides the plan)
// --output         : Wrangled CSV (overrides the plan)
// --trimmed-output : Wrangled and trimmed CSV (overrides the plan)
// --report         : Print the frequency table of every inspected column
// --log-level      : debug, info, warn or error
//
// With no flags the run reads "default of credit card clients.csv" from the
// working directory and writes the two derived files next to it.
//
// -------------------------------------------------------
//

func newLogger(lvl string) (log.Logger, error) {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	var opt level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		opt = level.AllowDebug()
	case "info", "":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}
	logger = level.NewFilter(logger, opt)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller, "run_id", uuid.NewString()), nil
}

func main() {
	planPath := flag.String("plan", "", "YAML plan file")
	input := flag.String("input", "", "Input CSV file")
	output := flag.String("output", "", "Path of the wrangled CSV")
	trimmedOutput := flag.String("trimmed-output", "", "Path of the wrangled and trimmed CSV")
	report := flag.Bool("report", false, "Print frequency tables of inspected columns")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	plan := pipeline.DefaultPlan()
	if *planPath != "" {
		if plan, err = pipeline.LoadPlan(*planPath); err != nil {
			level.Error(logger).Log("msg", "loading plan", "path", *planPath, "err", err)
			os.Exit(1)
		}
	}
	if *input != "" {
		plan.Input = *input
	}
	if *output != "" {
		plan.Output = *output
	}
	if *trimmedOutput != "" {
		plan.TrimmedOutput = *trimmedOutput
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := pipeline.Run(ctx, plan, logger)
	if err != nil {
		level.Error(logger).Log("msg", "wrangling failed", "err", err)
		stop()
		os.Exit(1)
	}

	if *report {
		for _, r := range res.Reports {
			if err := dataprep.WriteFrequencyTable(os.Stdout, r.Column, r.Inspection); err != nil {
				level.Error(logger).Log("msg", "writing report", "err", err)
				os.Exit(1)
			}
			fmt.Println()
		}
	}
}
