package app

import (
	"os"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, envKey string) {
		if *dst == "" {
			*dst = os.Getenv(envKey)
		}
	}
	// Input file and source URL are one setting: an explicit -input or -url
	// shadows both env keys.
	if cfg.InputPath == "" && cfg.SourceURL == "" {
		setString(&cfg.InputPath, "INPUT")
		setString(&cfg.SourceURL, "SOURCE_URL")
	}
	setString(&cfg.CSVPath, "CSV_OUT")
	setString(&cfg.PDFPath, "PDF_OUT")
	setString(&cfg.JSONPath, "JSON_OUT")
	setString(&cfg.ReportPath, "REPORT_OUT")
	setString(&cfg.CacheDir, "CACHE_DIR")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.UserAgent, "USER_AGENT")

	if len(cfg.StoplistExtra) == 0 {
		cfg.StoplistExtra = splitList(os.Getenv("STOPLIST_EXTRA"))
	}
	if len(cfg.StoplistReplace) == 0 {
		cfg.StoplistReplace = splitList(os.Getenv("STOPLIST_REPLACE"))
	}

	if cfg.CacheMaxAge == 0 {
		if s := os.Getenv("CACHE_MAX_AGE"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.CacheMaxAge = d
			}
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if v, ok := parseBool(os.Getenv(envKey)); ok && v {
			*dst = true
		}
	}
	setBool(&cfg.HTMLInput, "HTML_INPUT")
	setBool(&cfg.Normalize, "NORMALIZE")
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.Serve, "SERVE")
}

func parseBool(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
