package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"mercator-hq/helpdesk/pkg/config"
)

// refPattern matches ${secret:name} references.
var refPattern = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Resolver resolves ${secret:name} references against an ordered list of
// sources. The first source holding a secret wins and its value is cached.
type Resolver struct {
	sources []Source
	files   *FileSource
	cache   *Cache
	logger  *slog.Logger
}

// NewResolver builds a resolver from the secrets configuration: the
// environment first, then the secrets directory when one is configured.
func NewResolver(cfg config.SecretsConfig, logger *slog.Logger) (*Resolver, error) {
	sources := []Source{NewEnvSource(cfg.EnvPrefix)}

	var files *FileSource
	if cfg.Dir != "" {
		var err error
		files, err = NewFileSource(cfg.Dir)
		if err != nil {
			return nil, err
		}
		sources = append(sources, files)
	}

	r := NewResolverWithSources(sources, cfg.CacheTTL, logger)
	r.files = files
	return r, nil
}

// NewResolverWithSources creates a resolver over explicit sources.
func NewResolverWithSources(sources []Source, cacheTTL time.Duration, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		sources: sources,
		cache:   NewCache(cacheTTL, defaultCacheSize),
		logger:  logger,
	}
}

// Get returns the value of the named secret.
func (r *Resolver) Get(ctx context.Context, name string) (string, error) {
	if value, ok := r.cache.Get(name); ok {
		return value, nil
	}

	for _, source := range r.sources {
		value, err := source.Lookup(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("secret %q from %s: %w", name, source.Name(), err)
		}

		r.cache.Set(name, value)
		r.logger.Debug("secret resolved", "name", redactName(name), "source", source.Name())
		return value, nil
	}

	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Expand replaces every ${secret:name} reference in s. References that fail
// to resolve are left in place and reported together.
func (r *Resolver) Expand(ctx context.Context, s string) (string, error) {
	var errs []error
	out := refPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := refPattern.FindStringSubmatch(ref)[1]
		value, err := r.Get(ctx, name)
		if err != nil {
			errs = append(errs, err)
			return ref
		}
		return value
	})
	return out, errors.Join(errs...)
}

// ResolveProviders expands secret references in both providers' API keys.
func (r *Resolver) ResolveProviders(ctx context.Context, providers *config.ProvidersConfig) error {
	var errs []error
	for _, p := range []struct {
		field string
		cfg   *config.ProviderConfig
	}{
		{"providers.primary.api_key", &providers.Primary},
		{"providers.fallback.api_key", &providers.Fallback},
	} {
		key, err := r.Expand(ctx, p.cfg.APIKey)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.field, err))
			continue
		}
		p.cfg.APIKey = key
	}
	return errors.Join(errs...)
}

// Invalidate drops cached values so the next lookup reads the sources again.
func (r *Resolver) Invalidate() {
	r.cache.Clear()
}

// Watch invalidates the cache and calls onChange when a file in the secrets
// directory changes. Without a secrets directory it returns immediately.
func (r *Resolver) Watch(ctx context.Context, onChange func()) error {
	if r.files == nil {
		return nil
	}
	return r.files.Watch(ctx, r.logger, func(name string) {
		r.Invalidate()
		r.logger.Info("secrets changed", "name", redactName(name))
		if onChange != nil {
			onChange()
		}
	})
}

// HasReference reports whether s contains a ${secret:name} reference.
func HasReference(s string) bool {
	return refPattern.MatchString(s)
}

// redactName keeps the first and last two characters of a secret name.
func redactName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}
