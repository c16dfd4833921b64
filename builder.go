package shieldcore

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/shieldhq/shieldcore/activity"
	"github.com/shieldhq/shieldcore/kv"
	"github.com/shieldhq/shieldcore/permission"
)

// Builder defines a public type used by shieldcore APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	store  kv.Store

	catalog *permission.Catalog
	roles   map[string][]string

	opsSink OpsSink

	built bool
}

// New starts a [Builder] preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the persistence contract. The key
// namespace comes from [StoreConfig.Prefix].
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStore injects a custom [kv.Store] implementation. Takes precedence over
// [Builder.WithRedis]; the implementation owns its own namespacing.
func (b *Builder) WithStore(store kv.Store) *Builder {
	b.store = store
	return b
}

// WithCatalog sets the permission catalog. When omitted, the built-in QHSE
// catalog is used.
func (b *Builder) WithCatalog(catalog *permission.Catalog) *Builder {
	b.catalog = catalog
	return b
}

// WithRoles sets the declared role table. The admin role must not appear —
// it is derived as the catalog union. When omitted, the built-in QHSE roles
// are used.
func (b *Builder) WithRoles(roles map[string][]string) *Builder {
	b.roles = roles
	return b
}

// WithOpsSink sets the sink receiving operational events (log-write failures,
// authorization denials).
func (b *Builder) WithOpsSink(sink OpsSink) *Builder {
	b.opsSink = sink
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the log-read latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the catalog, role table, and configuration and assembles
// the [Engine]. A builder can only be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		if b.redis == nil {
			return nil, errors.New("store required: provide WithRedis or WithStore")
		}
		store = kv.NewRedisStore(b.redis, cfg.Store.Prefix)
	}

	// -------- PERMISSION CATALOG --------
	catalog := b.catalog
	if catalog == nil {
		catalog = permission.DefaultCatalog()
	}
	if catalog.Count() == 0 {
		return nil, errors.New("catalog has no permissions")
	}
	catalog.Freeze()

	// -------- ROLE TABLE --------
	declared := b.roles
	if declared == nil {
		declared = permission.DefaultRoles()
	}

	roles, err := permission.NewRoleSet(catalog, declared)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:   cfg,
		catalog:  catalog,
		roles:    roles,
		store:    store,
		recorder: activity.NewRecorder(store),
		ops:      newOpsDispatcher(cfg.Ops, b.opsSink),
		metrics:  NewMetrics(cfg.Metrics),
	}, nil
}
