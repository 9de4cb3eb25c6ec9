package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDefaultLocaleRequired indicates the runtime cannot resolve content without a locale.
var ErrDefaultLocaleRequired = errors.New("editkit config: default locale is required")

// ErrStructuralKeysRequireDrafts keeps the heuristic overlay behind the draft cache it depends on.
var ErrStructuralKeysRequireDrafts = errors.New("editkit config: structural keys feature requires local drafts to be enabled")

// ErrDraftsDirRequired indicates the file draft store has no directory configured.
var ErrDraftsDirRequired = errors.New("editkit config: drafts directory is required when the file provider is selected")

// ErrDraftsProviderUnknown indicates an unsupported draft store provider.
var ErrDraftsProviderUnknown = errors.New("editkit config: drafts provider is invalid")

// ErrStorageDriverUnknown indicates an unsupported database driver.
var ErrStorageDriverUnknown = errors.New("editkit config: storage driver is invalid")

// ErrMediaProviderUnknown indicates an unsupported blob store provider.
var ErrMediaProviderUnknown = errors.New("editkit config: media provider is invalid")

// ErrMediaBucketRequired indicates the S3 blob store has no bucket configured.
var ErrMediaBucketRequired = errors.New("editkit config: media bucket is required when the s3 provider is selected")

// ErrMaxImageBytesInvalid rejects non-positive upload limits.
var ErrMaxImageBytesInvalid = errors.New("editkit config: max image bytes must be positive")

// ErrLoggingProviderRequired indicates the logging feature is enabled without a provider.
var ErrLoggingProviderRequired = errors.New("editkit config: logging provider is required when logging feature is enabled")

// ErrLoggingProviderUnknown indicates an unsupported logging provider.
var ErrLoggingProviderUnknown = errors.New("editkit config: logging provider is invalid")

// ErrLoggingLevelInvalid indicates an unsupported logging level.
var ErrLoggingLevelInvalid = errors.New("editkit config: logging level is invalid")

// ErrLoggingFormatInvalid indicates an unsupported logging format.
var ErrLoggingFormatInvalid = errors.New("editkit config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the editkit module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled       bool
	DefaultLocale string
	Storage       StorageConfig
	Drafts        DraftsConfig
	Media         MediaConfig
	Limits        LimitsConfig
	Features      Features
	Logging       LoggingConfig
}

// StorageConfig captures database settings for the bun-backed content store.
type StorageConfig struct {
	Driver string
	DSN    string
}

// DraftsConfig captures settings for the local draft cache.
type DraftsConfig struct {
	Provider string
	Dir      string
}

// MediaConfig captures blob store settings for image uploads.
type MediaConfig struct {
	Provider string
	S3       S3Config
}

// S3Config wires the aws-sdk-go-v2 blob store.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string
	UsePathStyle    bool
}

// LimitsConfig bounds user-supplied payloads.
type LimitsConfig struct {
	MaxImageBytes         int64
	StructuralKeyMaxLen   int
	StructuralKeyMaxDepth int
	SaveTimeout           time.Duration
}

// Features toggles module functionality.
type Features struct {
	Versioning     bool
	LocalDrafts    bool
	StructuralKeys bool
	MediaLibrary   bool
	Logger         bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults: sqlite-in-memory storage, memory
// drafts, versioning on, structural keys on for migration scenarios.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "en",
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file::memory:?cache=shared",
		},
		Drafts: DraftsConfig{
			Provider: "memory",
		},
		Media: MediaConfig{
			Provider: "memory",
		},
		Limits: LimitsConfig{
			MaxImageBytes:         5 << 20,
			StructuralKeyMaxLen:   100,
			StructuralKeyMaxDepth: 8,
			SaveTimeout:           30 * time.Second,
		},
		Features: Features{
			Versioning:     true,
			LocalDrafts:    true,
			StructuralKeys: true,
			MediaLibrary:   true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// Validate checks cross-field consistency and returns the first violation.
func (cfg Config) Validate() error {
	if !cfg.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if cfg.Features.StructuralKeys && !cfg.Features.LocalDrafts {
		return ErrStructuralKeysRequireDrafts
	}
	switch normalize(cfg.Storage.Driver) {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	switch normalize(cfg.Drafts.Provider) {
	case "", "memory":
	case "file":
		if strings.TrimSpace(cfg.Drafts.Dir) == "" {
			return ErrDraftsDirRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrDraftsProviderUnknown, cfg.Drafts.Provider)
	}
	switch normalize(cfg.Media.Provider) {
	case "", "memory":
	case "s3":
		if strings.TrimSpace(cfg.Media.S3.Bucket) == "" {
			return ErrMediaBucketRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrMediaProviderUnknown, cfg.Media.Provider)
	}
	if cfg.Limits.MaxImageBytes <= 0 {
		return ErrMaxImageBytesInvalid
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
