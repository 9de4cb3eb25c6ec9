package editkit

import "github.com/goliatone/go-editkit/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired       = runtimeconfig.ErrDefaultLocaleRequired
	ErrStructuralKeysRequireDrafts = runtimeconfig.ErrStructuralKeysRequireDrafts
	ErrDraftsDirRequired           = runtimeconfig.ErrDraftsDirRequired
	ErrDraftsProviderUnknown       = runtimeconfig.ErrDraftsProviderUnknown
	ErrStorageDriverUnknown        = runtimeconfig.ErrStorageDriverUnknown
	ErrMediaProviderUnknown        = runtimeconfig.ErrMediaProviderUnknown
	ErrMediaBucketRequired         = runtimeconfig.ErrMediaBucketRequired
	ErrMaxImageBytesInvalid        = runtimeconfig.ErrMaxImageBytesInvalid
	ErrLoggingProviderRequired     = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	StorageConfig = runtimeconfig.StorageConfig
	DraftsConfig  = runtimeconfig.DraftsConfig
	MediaConfig   = runtimeconfig.MediaConfig
	S3Config      = runtimeconfig.S3Config
	LimitsConfig  = runtimeconfig.LimitsConfig
	Features      = runtimeconfig.Features
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
