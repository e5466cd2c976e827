package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/cluso-flowcore/pkg/config"
	"github.com/dd0wney/cluso-flowcore/pkg/export"
	"github.com/dd0wney/cluso-flowcore/pkg/logging"
	"github.com/dd0wney/cluso-flowcore/pkg/metrics"
	"github.com/dd0wney/cluso-flowcore/pkg/pipeline"
)

const usage = `Usage: flowcore [flags] <file>...

Builds a host contact graph from NetFlow captures (CTU-13 .binetflow, or .sz
snappy-framed) and ranks hosts by k-core number. Use "-" to read stdin.

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options holds the command line; zero values mean "not given".
type options struct {
	configPath  string
	top         int
	minCore     int
	out         string
	layout      string
	compress    bool
	workers     int
	plain       bool
	metricsFile string
	logLevel    string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("flowcore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.IntVar(&opts.top, "top", config.Default().Analysis.TopN, "Number of hosts in the report, 0 for all")
	fs.IntVar(&opts.minCore, "min-core", config.Default().Export.MinCore, "Export hosts with core number above this")
	fs.StringVar(&opts.out, "out", "", "Export directory (nodes.csv, edges.csv, visualization.json)")
	fs.StringVar(&opts.layout, "layout", config.Default().Export.Layout, "Visualization layout: circular, force or concentric")
	fs.BoolVar(&opts.compress, "compress", false, "Write exports snappy-framed (.sz)")
	fs.IntVar(&opts.workers, "workers", config.Default().Workers, "Inputs analysed concurrently")
	fs.BoolVar(&opts.plain, "plain", false, "Plain fixed-width report")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 1
	}

	cfg, err := loadConfig(fs, &opts)
	if err != nil {
		fmt.Fprintf(stderr, "flowcore: %v\n", err)
		return 1
	}

	logger := logging.NewJSONLogger(stderr, logging.ParseLevel(cfg.Log.Level))
	if env := os.Getenv(logging.EnvLogLevel); env != "" {
		logger.SetLevel(logging.ParseLevel(env))
	}
	logging.SetDefaultLogger(logger)

	reg := metrics.NewRegistry()
	deps := pipeline.Deps{
		Logger:  logger,
		Metrics: reg,
		Out:     stdout,
		Plain:   opts.plain,
	}

	if cfg.Export.S3.Enabled() {
		if cfg.Export.Dir == "" {
			logger.Warn("s3 upload configured without an export directory; nothing will be uploaded")
		}
		uploader, err := export.NewS3Uploader(ctx, cfg.Export.S3)
		if err != nil {
			logger.Error("failed to configure s3", logging.Error(err))
			return 1
		}
		deps.Uploader = uploader
	}

	if cfg.Export.Postgres.Enabled() {
		sink, err := export.NewPGSink(ctx, cfg.Export.Postgres.URL, cfg.Export.Postgres.Table)
		if err != nil {
			logger.Error("failed to connect to postgres", logging.Error(err))
			return 1
		}
		defer sink.Close()
		deps.CoreSink = sink
	}

	logger.Info("flowcore starting",
		logging.Count(fs.NArg()),
		logging.Int("workers", cfg.Workers),
		logging.String("export_dir", cfg.Export.Dir),
		logging.Bool("compress", cfg.Export.Compress),
	)

	_, runErr := pipeline.New(cfg, deps).Run(ctx, fs.Args())

	if cfg.Metrics.Textfile != "" {
		if err := reg.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Error("failed to write metrics", logging.Error(err))
		}
	}

	if runErr != nil {
		logger.Error("flowcore finished with errors", logging.Error(runErr))
		return 1
	}
	return 0
}

// loadConfig reads the config file, if any, then applies the flags that were
// given explicitly.
func loadConfig(fs *flag.FlagSet, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "top":
			cfg.Analysis.TopN = opts.top
		case "min-core":
			cfg.Export.MinCore = opts.minCore
		case "out":
			cfg.Export.Dir = opts.out
		case "layout":
			cfg.Export.Layout = opts.layout
		case "compress":
			cfg.Export.Compress = opts.compress
		case "workers":
			cfg.Workers = opts.workers
		case "metrics-file":
			cfg.Metrics.Textfile = opts.metricsFile
		case "log-level":
			cfg.Log.Level = opts.logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
