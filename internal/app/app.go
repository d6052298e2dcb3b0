// Package app wires configuration, input sources, the lead extractors and
// the exporters into the buyerhunter command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/homestarrealty/buyerhunter/internal/cache"
	"github.com/homestarrealty/buyerhunter/internal/export"
	"github.com/homestarrealty/buyerhunter/internal/extract"
	"github.com/homestarrealty/buyerhunter/internal/fetch"
	"github.com/homestarrealty/buyerhunter/internal/leads"
)

// ErrEmptyInput is returned when the text to scan is empty or whitespace.
var ErrEmptyInput = errors.New("please paste some text")

type App struct {
	cfg       Config
	extractor leads.Extractor
	fetcher   *fetch.Client
}

// Stoplist builds the name stoplist described by cfg.
func Stoplist(cfg Config) leads.Stoplist {
	base := leads.DefaultStoplist()
	if len(cfg.StoplistReplace) > 0 {
		base = leads.NewStoplist(cfg.StoplistReplace...)
	}
	return base.With(cfg.StoplistExtra...)
}

func New(cfg Config) (*App, error) {
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	a := &App{
		cfg:       cfg,
		extractor: leads.New(Stoplist(cfg)),
		fetcher: &fetch.Client{
			HTTPClient:        fetch.NewHTTPClient(),
			UserAgent:         cfg.UserAgent,
			MaxAttempts:       3,
			PerRequestTimeout: 20 * time.Second,
		},
	}
	if cfg.CacheDir != "" {
		pc := &cache.PageCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
		if cfg.CacheClear {
			if err := pc.Clear(); err != nil {
				return nil, fmt.Errorf("clear cache: %w", err)
			}
		}
		if cfg.CacheMaxAge > 0 {
			n, err := pc.PurgeByAge(cfg.CacheMaxAge)
			if err != nil {
				log.Warn().Err(err).Msg("cache purge failed; continuing")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged expired cache entries")
			}
		}
		a.fetcher.Cache = pc
	}
	return a, nil
}

// Extractor returns the configured lead extractor.
func (a *App) Extractor() leads.Extractor { return a.extractor }

// Prepare turns raw input into scannable text: HTML is flattened when html is
// set, then NFKC folding is applied when normalize is set.
func Prepare(raw string, html, normalize bool) string {
	text := raw
	if html {
		text = extract.FromHTML([]byte(raw)).Text
	}
	if normalize {
		text = extract.Normalize(text)
	}
	return text
}

// Extract validates text and runs both extraction passes over it.
func (a *App) Extract(text string) (leads.Result, error) {
	if strings.TrimSpace(text) == "" {
		return leads.Result{}, ErrEmptyInput
	}
	return a.extractor.Extract(text), nil
}

// ReadInput loads the raw text from the configured URL, file or stdin and
// reports a label for where it came from and whether it is HTML.
func (a *App) ReadInput(ctx context.Context, stdin io.Reader) (text string, source string, isHTML bool, err error) {
	if u := strings.TrimSpace(a.cfg.SourceURL); u != "" {
		body, ct, err := a.fetcher.Get(ctx, u)
		if err != nil {
			return "", u, false, fmt.Errorf("fetch %s: %w", u, err)
		}
		log.Info().Str("url", u).Str("content_type", ct).Int("bytes", len(body)).Msg("fetched source")
		return string(body), u, fetch.IsHTML(ct) || a.cfg.HTMLInput, nil
	}

	path := strings.TrimSpace(a.cfg.InputPath)
	if path == "" || path == "-" {
		if stdin == nil {
			return "", "stdin", false, ErrEmptyInput
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", "stdin", false, fmt.Errorf("read stdin: %w", err)
		}
		return string(b), "stdin", a.cfg.HTMLInput, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", path, false, fmt.Errorf("read input: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return string(b), path, a.cfg.HTMLInput || ext == ".html" || ext == ".htm", nil
}

// Run reads the input, extracts leads, prints the summary to stdout and
// writes every configured export.
func (a *App) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	raw, source, isHTML, err := a.ReadInput(ctx, stdin)
	if err != nil {
		return err
	}
	if !isHTML && extract.LooksLikeHTML(raw) {
		log.Warn().Str("source", source).Msg("input looks like HTML; pass -html to strip markup")
	}
	text := Prepare(raw, isHTML, a.cfg.Normalize)

	res, err := a.Extract(text)
	if err != nil {
		return err
	}
	log.Info().Str("source", source).Int("phones", len(res.Phones)).Int("names", len(res.Names)).Msg("extraction done")

	summary := export.Summary(res)
	if stdout != nil {
		if _, err := io.WriteString(stdout, summary); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return a.writeOutputs(res, source, summary)
}

func (a *App) writeOutputs(res leads.Result, source string, summary string) error {
	if p := a.cfg.CSVPath; p != "" {
		if err := writeFile(p, func(w io.Writer) error { return export.WriteCSV(w, res.Phones) }); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		log.Info().Str("out", p).Msg("wrote csv")
	}
	if p := a.cfg.JSONPath; p != "" {
		if err := writeFile(p, func(w io.Writer) error { return export.WriteJSON(w, res) }); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		log.Info().Str("out", p).Msg("wrote json")
	}
	if p := a.cfg.PDFPath; p != "" {
		if err := export.WritePDFFile(p, res, export.ReportMeta{Source: source}); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", p).Msg("wrote pdf")
	}
	if p := a.cfg.ReportPath; p != "" {
		report := appendRunFooter(summary, source, res, a.cfg)
		if err := os.WriteFile(p, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Info().Str("out", p).Msg("wrote report")
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
