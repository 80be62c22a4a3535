package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/divina/core/validator"
	"github.com/kochabx/divina/log"
)

// Config manages loading a configuration target
type Config struct {
	mu       sync.RWMutex
	viper    *viper.Viper
	validate validator.Validator
	target   any
	loader   Loader
	onChange []func()
}

// New creates a Config for target. Without WithLoader it reads divina.yaml
// from the working directory, with DIVINA_ environment overrides and the
// Settings defaults.
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader("divina.yaml", []string{"."}, c.viper, c.validate,
			WithEnvPrefix(EnvPrefix),
			WithDefaults(Defaults()),
			WithOptionalFile(),
		)
	}

	return c
}

// Load reads the configuration using the configured loader
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loader.Load(c.target)
}

// Reload is Load for an already loaded target.
func (c *Config) Reload() error {
	return c.Load()
}

// Read runs fn with the target under the read lock.
func (c *Config) Read(fn func(target any)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.target)
}

// Watch reloads the target on source changes
func (c *Config) Watch() error {
	return c.loader.Watch(func() {
		log.Info().Msg("config change detected")

		if err := c.Reload(); err != nil {
			log.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		for _, fn := range c.onChange {
			fn()
		}
		log.Info().Msg("config reloaded successfully")
	})
}

// GetViper returns the underlying viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
