package logging

import (
	"context"

	"github.com/goliatone/go-editkit/pkg/interfaces"
)

const (
	rootModule     = "editkit"
	storeModule    = "editkit.store"
	sessionModule  = "editkit.session"
	overlayModule  = "editkit.overlay"
	draftsModule   = "editkit.drafts"
	mediaModule    = "editkit.media"
	registryModule = "editkit.registry"
	toolbarModule  = "editkit.toolbar"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// StoreLogger returns the logger namespace reserved for the content store gateway.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// SessionLogger returns the logger namespace reserved for edit sessions.
func SessionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sessionModule)
}

// OverlayLogger returns the logger namespace reserved for the edit-mode overlay.
func OverlayLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, overlayModule)
}

// DraftsLogger returns the logger namespace reserved for the local draft cache.
func DraftsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, draftsModule)
}

// MediaLogger returns the logger namespace reserved for blob storage.
func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediaModule)
}

// RegistryLogger returns the logger namespace reserved for the slot registry.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// ToolbarLogger returns the logger namespace reserved for the admin toolbar.
func ToolbarLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, toolbarModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
