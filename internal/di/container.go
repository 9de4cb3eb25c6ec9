package di

import (
	"context"
	"time"

	"github.com/goliatone/go-editkit/internal/drafts"
	"github.com/goliatone/go-editkit/internal/logging"
	"github.com/goliatone/go-editkit/internal/logging/gologger"
	"github.com/goliatone/go-editkit/internal/media"
	"github.com/goliatone/go-editkit/internal/registry"
	"github.com/goliatone/go-editkit/internal/runtimeconfig"
	"github.com/goliatone/go-editkit/internal/store"
	"github.com/goliatone/go-editkit/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires module dependencies from configuration plus overrides.
// Defaults favour in-memory adapters so the module runs without external
// services; a bun DB, file drafts, and S3 media activate through config or
// options.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	contentRepo store.Repository
	contentSvc  store.Service

	draftStore drafts.Store
	blobStore  interfaces.BlobStore
	mediaSvc   *media.Service

	capability interfaces.EditCapability
	registry   *registry.Registry
	importer   *registry.Importer

	clock func() time.Time
	idGen store.IDGenerator
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds the database used by the content store.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithContentRepository overrides the content repository binding.
func WithContentRepository(repo store.Repository) Option {
	return func(c *Container) {
		c.contentRepo = repo
	}
}

// WithContentService overrides the content service binding.
func WithContentService(svc store.Service) Option {
	return func(c *Container) {
		c.contentSvc = svc
	}
}

// WithDraftStore overrides the local draft cache binding.
func WithDraftStore(store drafts.Store) Option {
	return func(c *Container) {
		c.draftStore = store
	}
}

// WithBlobStore overrides the blob store binding.
func WithBlobStore(store interfaces.BlobStore) Option {
	return func(c *Container) {
		c.blobStore = store
	}
}

// WithLoggerProvider overrides the logger provider binding.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithEditCapability overrides the capability predicate gating edit mode.
func WithEditCapability(capability interfaces.EditCapability) Option {
	return func(c *Container) {
		if capability != nil {
			c.capability = capability
		}
	}
}

// WithClock overrides the time source used by the content service.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the content service.
func WithIDGenerator(generator store.IDGenerator) Option {
	return func(c *Container) {
		c.idGen = generator
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:     cfg,
		capability: interfaces.AllowAll(),
		registry:   registry.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.configureLogging()
	c.configureCacheDefaults()
	c.configureRepositories()

	if c.contentSvc == nil {
		svcOpts := []store.ServiceOption{
			store.WithVersioning(cfg.Features.Versioning),
			store.WithLogger(logging.StoreLogger(c.loggerProvider)),
		}
		if c.clock != nil {
			svcOpts = append(svcOpts, store.WithClock(c.clock))
		}
		if c.idGen != nil {
			svcOpts = append(svcOpts, store.WithIDGenerator(c.idGen))
		}
		c.contentSvc = store.NewService(c.contentRepo, svcOpts...)
	}

	c.configureDrafts()
	c.configureMedia()

	c.importer = registry.NewImporter(c.registry, c.contentSvc,
		registry.WithImportLogger(logging.RegistryLogger(c.loggerProvider)))

	return c, nil
}

func (c *Container) configureLogging() {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		// Config validation vets logging options; a provider failure here
		// leaves the module on the no-op logger rather than failing boot.
		return
	}
	c.loggerProvider = provider
}

func (c *Container) configureCacheDefaults() {
	if c.bunDB == nil {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if service, err := repocache.NewCacheService(cfg); err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.contentRepo != nil {
		return
	}
	if c.bunDB != nil {
		c.contentRepo = store.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return
	}
	c.contentRepo = store.NewMemoryRepository()
}

func (c *Container) configureDrafts() {
	if c.draftStore != nil {
		return
	}
	if !c.Config.Features.LocalDrafts {
		c.draftStore = drafts.NewMemoryStore()
		return
	}
	switch c.Config.Drafts.Provider {
	case "file":
		logger := logging.DraftsLogger(c.loggerProvider)
		fileStore, err := drafts.NewFileStore(c.Config.Drafts.Dir, drafts.WithLogger(logger))
		if err != nil {
			logger.Error("file draft store unavailable, using memory", "dir", c.Config.Drafts.Dir, "error", err)
			c.draftStore = drafts.NewMemoryStore()
			return
		}
		c.draftStore = fileStore
	default:
		c.draftStore = drafts.NewMemoryStore()
	}
}

func (c *Container) configureMedia() {
	if c.blobStore == nil {
		switch c.Config.Media.Provider {
		case "s3":
			s3Cfg := c.Config.Media.S3
			s3Store, err := media.NewS3Store(context.Background(), media.S3Config{
				Bucket:          s3Cfg.Bucket,
				Region:          s3Cfg.Region,
				Endpoint:        s3Cfg.Endpoint,
				AccessKeyID:     s3Cfg.AccessKeyID,
				SecretAccessKey: s3Cfg.SecretAccessKey,
				BaseURL:         s3Cfg.BaseURL,
				UsePathStyle:    s3Cfg.UsePathStyle,
			})
			if err != nil {
				logging.MediaLogger(c.loggerProvider).Error("s3 blob store unavailable, using memory", "bucket", s3Cfg.Bucket, "error", err)
				c.blobStore = media.NewMemoryStore("")
				break
			}
			c.blobStore = s3Store
		default:
			c.blobStore = media.NewMemoryStore("")
		}
	}

	if c.Config.Features.MediaLibrary {
		c.mediaSvc = media.NewService(c.blobStore,
			media.WithLogger(logging.MediaLogger(c.loggerProvider)))
	}
}

// LoggerProvider exposes the configured logger provider, nil when logging is
// disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// ContentRepository exposes the configured content repository.
func (c *Container) ContentRepository() store.Repository {
	return c.contentRepo
}

// ContentService returns the configured content store gateway.
func (c *Container) ContentService() store.Service {
	return c.contentSvc
}

// DraftStore returns the configured local draft cache.
func (c *Container) DraftStore() drafts.Store {
	return c.draftStore
}

// BlobStore returns the configured blob store.
func (c *Container) BlobStore() interfaces.BlobStore {
	return c.blobStore
}

// MediaService returns the media service, nil when the media library feature
// is disabled.
func (c *Container) MediaService() *media.Service {
	return c.mediaSvc
}

// EditCapability returns the predicate gating edit mode.
func (c *Container) EditCapability() interfaces.EditCapability {
	return c.capability
}

// Registry returns the slot registry.
func (c *Container) Registry() *registry.Registry {
	return c.registry
}

// Importer returns the structural-to-explicit content importer.
func (c *Container) Importer() *registry.Importer {
	return c.importer
}
