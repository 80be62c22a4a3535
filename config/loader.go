package config

// Loader loads configuration into a target and watches its source.
type Loader interface {
	Load(target any) error

	// Watch invokes callback whenever the source changes
	Watch(callback func()) error
}
