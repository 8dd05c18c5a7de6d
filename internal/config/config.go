package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dgallion1/tendermatch/internal/locate"
	"github.com/dgallion1/tendermatch/internal/score"
)

// EnvPrefix prefixes every environment variable, e.g. TENDERMATCH_PORT or
// TENDERMATCH_THRESHOLDS_OK.
const EnvPrefix = "TENDERMATCH"

type Config struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// Auth
	APIKey string `mapstructure:"api_key"`

	// Catalog; an empty path uses the embedded default.
	CatalogPath  string `mapstructure:"catalog_path"`
	WatchCatalog bool   `mapstructure:"watch_catalog"`

	// Matching
	Segmenter     string            `mapstructure:"segmenter"` // gse | bigram
	Parallelism   int               `mapstructure:"parallelism"`
	PreviewLength int               `mapstructure:"preview_length"`
	Thresholds    locate.Thresholds `mapstructure:"thresholds"`
	Weights       score.Weights     `mapstructure:"weights"`

	// Worker pool
	WorkerCount  int `mapstructure:"worker_count"`
	MaxQueueSize int `mapstructure:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`

	// Job state
	JobTTL      time.Duration `mapstructure:"job_ttl"`
	StatsWindow time.Duration `mapstructure:"stats_window"`

	// Conversion
	PDFFallbackPdftotext bool `mapstructure:"pdf_fallback_pdftotext"`
	HTMLFullPage         bool `mapstructure:"html_full_page"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8091")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_key", "")
	v.SetDefault("catalog_path", "")
	v.SetDefault("watch_catalog", true)

	v.SetDefault("segmenter", "gse")
	v.SetDefault("parallelism", 4)
	v.SetDefault("preview_length", locate.DefaultPreviewLength)

	th := locate.DefaultThresholds()
	v.SetDefault("thresholds.ok", th.OK)
	v.SetDefault("thresholds.low", th.Low)
	v.SetDefault("thresholds.alternative", th.Alternative)
	v.SetDefault("thresholds.chapter_exact", th.ChapterExact)
	v.SetDefault("thresholds.window_floor", th.WindowFloor)
	v.SetDefault("thresholds.conflict_margin", th.ConflictMargin)

	v.SetDefault("worker_count", 4)
	v.SetDefault("max_queue_size", 100)
	v.SetDefault("max_upload_bytes", int64(52428800)) // 50MB
	v.SetDefault("job_ttl", time.Hour)
	v.SetDefault("stats_window", time.Hour)
	v.SetDefault("pdf_fallback_pdftotext", true)
	v.SetDefault("html_full_page", false)
}

// Load reads defaults, then the optional YAML file, then TENDERMATCH_*
// environment variables. An empty cfgFile looks for tendermatch.yaml in the
// working directory and ignores its absence. Scoring weights not named in the
// file keep their defaults.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("tendermatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Thresholds: locate.DefaultThresholds(),
		Weights:    score.DefaultWeights(),
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = time.Hour
	}
	if cfg.PreviewLength <= 0 {
		cfg.PreviewLength = locate.DefaultPreviewLength
	}
	cfg.Segmenter = strings.ToLower(strings.TrimSpace(cfg.Segmenter))

	return cfg, nil
}

// Validate checks the settings the matcher depends on. The API key is only
// required when requireAuth is set (the HTTP server); the CLI runs without.
func (c Config) Validate(requireAuth bool) error {
	if requireAuth && c.APIKey == "" {
		return fmt.Errorf("%s_API_KEY is required", EnvPrefix)
	}
	switch c.Segmenter {
	case "gse", "bigram":
	default:
		return fmt.Errorf("segmenter must be gse or bigram, got %q", c.Segmenter)
	}
	th := c.Thresholds
	for name, val := range map[string]float64{
		"ok":            th.OK,
		"low":           th.Low,
		"alternative":   th.Alternative,
		"chapter_exact": th.ChapterExact,
		"window_floor":  th.WindowFloor,
	} {
		if val < 0 || val > 1 {
			return fmt.Errorf("thresholds.%s must be within [0,1], got %v", name, val)
		}
	}
	if th.Low > th.OK {
		return fmt.Errorf("thresholds.low (%v) must not exceed thresholds.ok (%v)", th.Low, th.OK)
	}
	if th.ConflictMargin < 0 {
		return fmt.Errorf("thresholds.conflict_margin must not be negative")
	}
	return nil
}
