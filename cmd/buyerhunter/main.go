package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/homestarrealty/buyerhunter/internal/app"
	"github.com/homestarrealty/buyerhunter/internal/server"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath      string
		envFiles        string
		stoplistExtra   string
		stoplistReplace string
		showVersion     bool
		cfg             app.Config
	)

	flag.StringVar(&configPath, "config", os.Getenv("BUYERHUNTER_CONFIG"), "Path to YAML or JSON config file")
	flag.StringVar(&envFiles, "env", ".env,.env.local", "Comma-separated dotenv files to load")
	flag.StringVar(&cfg.InputPath, "input", "", "Text file to scan, or - for stdin (default -)")
	flag.StringVar(&cfg.SourceURL, "url", "", "Fetch a listing page and scan its text")
	flag.StringVar(&cfg.CSVPath, "csv", "", "Write phone numbers as CSV to this path")
	flag.StringVar(&cfg.PDFPath, "pdf", "", "Write a PDF report to this path")
	flag.StringVar(&cfg.JSONPath, "json", "", "Write phones and names as JSON to this path")
	flag.StringVar(&cfg.ReportPath, "report", "", "Write the text summary with a run footer to this path")
	flag.BoolVar(&cfg.HTMLInput, "html", false, "Treat input as HTML and scan only its visible text")
	flag.BoolVar(&cfg.Normalize, "normalize", false, "Fold full-width digits and letters (NFKC) before scanning")
	flag.StringVar(&stoplistExtra, "stoplist.extra", "", "Comma-separated words to add to the name stoplist")
	flag.StringVar(&stoplistReplace, "stoplist.replace", "", "Comma-separated words replacing the built-in name stoplist")
	flag.StringVar(&cfg.UserAgent, "ua", "", "User-Agent for -url fetches")
	flag.StringVar(&cfg.CacheDir, "cache.dir", "", "Cache fetched pages in this directory")
	flag.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Purge cached pages older than this (e.g. 24h); 0 disables")
	flag.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear the page cache before running")
	flag.BoolVar(&cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.BoolVar(&cfg.Serve, "serve", false, "Run the web UI instead of a one-shot extraction")
	flag.StringVar(&cfg.ListenAddr, "listen", "", "Web UI listen address (default localhost:8501)")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(app.VersionString())
		return
	}

	if err := app.LoadEnvFiles(strings.Split(envFiles, ",")...); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}

	cfg.StoplistExtra = splitList(stoplistExtra)
	cfg.StoplistReplace = splitList(stoplistReplace)

	// Precedence: flags, then env, then config file, then defaults.
	app.ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	applyDefaults(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	os.Exit(exitCode(run(cfg, os.Stdin, os.Stdout)))
}

func applyDefaults(cfg *app.Config) {
	if cfg.InputPath == "" && cfg.SourceURL == "" {
		cfg.InputPath = "-"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "localhost:8501"
	}
}

// exitCode maps run errors to the process exit status: 2 when there was
// nothing to scan, 1 for other failures.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrEmptyInput):
		log.Error().Msg("Please paste some text: the input is empty")
		return 2
	default:
		log.Error().Err(err).Msg("run failed")
		return 1
	}
}

func run(cfg app.Config, stdin io.Reader, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	if cfg.Serve {
		return serve(ctx, a, cfg)
	}
	return a.Run(ctx, stdin, stdout)
}

func serve(ctx context.Context, a *app.App, cfg app.Config) error {
	srv, err := server.New(server.Options{
		Extractor: a.Extractor(),
		Prepare: func(raw string, html bool) string {
			return app.Prepare(raw, html, cfg.Normalize)
		},
		Logger:  log.Logger,
		Version: app.VersionString(),
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.ListenAddr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
