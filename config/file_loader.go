package config

import (
	"errors"
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabx/divina/core/validator"
	kerrors "github.com/kochabx/divina/errors"
)

// FileLoader loads configuration from a file with environment overrides
type FileLoader struct {
	viper    *viper.Viper
	validate validator.Validator
	name     string
	paths    []string
	optional bool
}

// FileLoaderOption configures a FileLoader
type FileLoaderOption func(*FileLoader)

// WithEnvPrefix sets the environment prefix, e.g. DIVINA_API_BASEURL.
func WithEnvPrefix(prefix string) FileLoaderOption {
	return func(l *FileLoader) {
		l.viper.SetEnvPrefix(prefix)
	}
}

// WithDefaults registers default values by dotted key.
func WithDefaults(defaults map[string]any) FileLoaderOption {
	return func(l *FileLoader) {
		for k, v := range defaults {
			l.viper.SetDefault(k, v)
		}
	}
}

// WithOptionalFile lets Load succeed from defaults and environment alone
// when the file does not exist.
func WithOptionalFile() FileLoaderOption {
	return func(l *FileLoader) {
		l.optional = true
	}
}

// NewFileLoader creates a new file loader
func NewFileLoader(name string, paths []string, v *viper.Viper, validate validator.Validator, opts ...FileLoaderOption) *FileLoader {
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName(name)
	v.SetConfigType(strings.TrimPrefix(path.Ext(name), "."))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	l := &FileLoader{
		viper:    v,
		paths:    paths,
		name:     name,
		validate: validate,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements Loader interface
func (l *FileLoader) Load(target any) error {
	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !l.optional || !errors.As(err, &notFound) {
			return kerrors.Wrap(err, 404, "config file not found")
		}
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return kerrors.Wrap(err, 500, "config parse error")
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return kerrors.Wrap(err, 400, "config validation failed: %s", err.Error())
		}
	}

	return nil
}

// Watch implements Loader interface
func (l *FileLoader) Watch(callback func()) error {
	l.viper.OnConfigChange(func(fsnotify.Event) {
		if callback != nil {
			callback()
		}
	})
	l.viper.WatchConfig()
	return nil
}
