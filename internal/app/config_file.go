package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the YAML/JSON configuration file schema.
type FileConfig struct {
	Input string `yaml:"input" json:"input"`

	Output struct {
		CSV    string `yaml:"csv" json:"csv"`
		PDF    string `yaml:"pdf" json:"pdf"`
		JSON   string `yaml:"json" json:"json"`
		Report string `yaml:"report" json:"report"`
	} `yaml:"output" json:"output"`

	Source struct {
		URL       string `yaml:"url" json:"url"`
		UserAgent string `yaml:"userAgent" json:"userAgent"`
	} `yaml:"source" json:"source"`

	Stoplist struct {
		Extra   []string `yaml:"extra" json:"extra"`
		Replace []string `yaml:"replace" json:"replace"`
	} `yaml:"stoplist" json:"stoplist"`

	HTML      bool `yaml:"html" json:"html"`
	Normalize bool `yaml:"normalize" json:"normalize"`
	Verbose   bool `yaml:"verbose" json:"verbose"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	Server struct {
		Enable bool   `yaml:"enable" json:"enable"`
		Listen string `yaml:"listen" json:"listen"`
	} `yaml:"server" json:"server"`
}

// LoadConfigFile reads YAML or JSON into FileConfig, choosing by extension
// and trying YAML then JSON for anything else.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig fills fields of cfg that are still unset or at their flag
// default with values from fc, so explicit flags keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if (cfg.InputPath == "" || cfg.InputPath == defaultInput) && cfg.SourceURL == "" {
		switch {
		case fc.Input != "":
			cfg.InputPath = fc.Input
		case fc.Source.URL != "" && cfg.InputPath == "":
			cfg.SourceURL = fc.Source.URL
		}
	}
	if (cfg.UserAgent == "" || cfg.UserAgent == defaultUserAgent) && fc.Source.UserAgent != "" {
		cfg.UserAgent = fc.Source.UserAgent
	}

	if cfg.CSVPath == "" && fc.Output.CSV != "" {
		cfg.CSVPath = fc.Output.CSV
	}
	if cfg.PDFPath == "" && fc.Output.PDF != "" {
		cfg.PDFPath = fc.Output.PDF
	}
	if cfg.JSONPath == "" && fc.Output.JSON != "" {
		cfg.JSONPath = fc.Output.JSON
	}
	if cfg.ReportPath == "" && fc.Output.Report != "" {
		cfg.ReportPath = fc.Output.Report
	}

	if len(cfg.StoplistExtra) == 0 && len(fc.Stoplist.Extra) > 0 {
		cfg.StoplistExtra = append([]string{}, fc.Stoplist.Extra...)
	}
	if len(cfg.StoplistReplace) == 0 && len(fc.Stoplist.Replace) > 0 {
		cfg.StoplistReplace = append([]string{}, fc.Stoplist.Replace...)
	}

	if !cfg.HTMLInput && fc.HTML {
		cfg.HTMLInput = true
	}
	if !cfg.Normalize && fc.Normalize {
		cfg.Normalize = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}

	if !cfg.Serve && fc.Server.Enable {
		cfg.Serve = true
	}
	if (cfg.ListenAddr == "" || cfg.ListenAddr == defaultListen) && fc.Server.Listen != "" {
		cfg.ListenAddr = fc.Server.Listen
	}
}

// ValidateConfig rejects settings that cannot work together.
func ValidateConfig(cfg Config) error {
	if cfg.CacheMaxAge < 0 {
		return errors.New("config: cache.maxAge must not be negative")
	}
	if cfg.Serve && strings.TrimSpace(cfg.ListenAddr) == "" {
		return errors.New("config: server.listen is required when serving")
	}
	if strings.TrimSpace(cfg.InputPath) != "" && strings.TrimSpace(cfg.SourceURL) != "" {
		return errors.New("config: input and source.url are mutually exclusive")
	}
	if !cfg.Serve && strings.TrimSpace(cfg.InputPath) == "" && strings.TrimSpace(cfg.SourceURL) == "" {
		return errors.New("config: an input path or source URL is required")
	}
	if cfg.CacheClear && strings.TrimSpace(cfg.CacheDir) == "" {
		return errors.New("config: cache.clear needs cache.dir")
	}
	return nil
}
