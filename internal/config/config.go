package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bindery/bindery/internal/reconstruct"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Azure Translator
	AzureTranslatorKey      string
	AzureTranslatorEndpoint string
	AzureTranslatorRegion   string
	TranslateFrom           string
	TranslateTo             string
	TranslateBatchSize      int
	TranslateAttempts       int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int
	PageWorkers  int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF layout bands and thresholds, in page units.
	LineTolerance   float64
	SizeTolerance   float64
	TitleBand       float64
	HeaderBand      float64
	BodyTop         float64
	BodyBottom      float64
	FootnoteBand    float64
	IndentThreshold float64
	ParagraphGap    float64
	FootnoteReach   float64

	// Footnote markers that are really continuations of earlier
	// footnotes, as "artifact=parent" pairs: "233=9,241=9".
	FootnoteArtifacts string

	PDFFallbackPdftotext bool
}

func Load() Config {
	// A local .env overrides nothing already exported.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("BINDERY_API_KEY"),

		AzureTranslatorKey:      os.Getenv("AZURE_TRANSLATOR_KEY"),
		AzureTranslatorEndpoint: envOr("AZURE_TRANSLATOR_ENDPOINT", "https://api.cognitive.microsofttranslator.com"),
		AzureTranslatorRegion:   os.Getenv("AZURE_TRANSLATOR_LOCATION"),
		TranslateFrom:           envOr("TRANSLATE_FROM", "en"),
		TranslateTo:             envOr("TRANSLATE_TO", "zh-Hans"),
		TranslateBatchSize:      envInt("TRANSLATE_BATCH_SIZE", 20),
		TranslateAttempts:       envInt("TRANSLATE_ATTEMPTS", 3),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),
		PageWorkers:  envInt("PAGE_WORKERS", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 104857600), // 100MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		LineTolerance:   envFloat("LINE_TOLERANCE", 2),
		SizeTolerance:   envFloat("SIZE_TOLERANCE", 0.5),
		TitleBand:       envFloat("TITLE_BAND", 200),
		HeaderBand:      envFloat("HEADER_BAND", 70),
		BodyTop:         envFloat("BODY_TOP", 70),
		BodyBottom:      envFloat("BODY_BOTTOM", 400),
		FootnoteBand:    envFloat("FOOTNOTE_BAND", 450),
		IndentThreshold: envFloat("INDENT_THRESHOLD", 90),
		ParagraphGap:    envFloat("PARAGRAPH_GAP", 20),
		FootnoteReach:   envFloat("FOOTNOTE_REACH", 30),

		FootnoteArtifacts: os.Getenv("FOOTNOTE_ARTIFACTS"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.TranslateBatchSize <= 0 {
		cfg.TranslateBatchSize = 20
	}
	if cfg.TranslateAttempts <= 0 {
		cfg.TranslateAttempts = 3
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("BINDERY_API_KEY is required")
	}
	return nil
}

// TranslationEnabled reports whether a translator key was configured.
func (c Config) TranslationEnabled() bool {
	return c.AzureTranslatorKey != ""
}

// LayoutConfig assembles the reconstruction settings from the env values.
func (c Config) LayoutConfig() reconstruct.Config {
	return reconstruct.Config{
		LineTolerance:   c.LineTolerance,
		SizeTolerance:   c.SizeTolerance,
		TitleBand:       c.TitleBand,
		HeaderBand:      c.HeaderBand,
		BodyTop:         c.BodyTop,
		BodyBottom:      c.BodyBottom,
		FootnoteBand:    c.FootnoteBand,
		IndentThreshold: c.IndentThreshold,
		ParagraphGap:    c.ParagraphGap,
		FootnoteReach:   c.FootnoteReach,
		Workers:         c.PageWorkers,
	}
}

// ArtifactPolicy parses FOOTNOTE_ARTIFACTS into an allow list. Malformed
// pairs are skipped.
func (c Config) ArtifactPolicy() reconstruct.ArtifactPolicy {
	if c.FootnoteArtifacts == "" {
		return nil
	}
	list := reconstruct.AllowList{}
	for _, pair := range strings.Split(c.FootnoteArtifacts, ",") {
		artifact, parent, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		artifact = strings.TrimSpace(artifact)
		parent = strings.TrimSpace(parent)
		if artifact == "" || parent == "" {
			continue
		}
		list[artifact] = parent
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
