package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// Input: a file path, "-" for stdin, or a URL to fetch.
	InputPath string
	SourceURL string

	// Outputs; empty paths are skipped.
	CSVPath    string
	PDFPath    string
	JSONPath   string
	ReportPath string

	// Text handling
	HTMLInput bool
	Normalize bool

	// Name stoplist. Replace, when set, is used instead of the built-in list;
	// Extra is added on top either way.
	StoplistExtra   []string
	StoplistReplace []string

	// Fetching
	UserAgent        string
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	// Web UI
	Serve      bool
	ListenAddr string

	Verbose bool
}

const (
	defaultInput     = "-"
	defaultListen    = "localhost:8501"
	defaultUserAgent = "buyerhunter/1.0 (+https://www.homestarrealty.in)"
)
