package config

// Option customizes how a Viper config is loaded.
type Option func(*options)

type options struct {
	defaults   map[string]any
	aliases    map[string][]string
	dotEnvs    []string
	envEnabled bool
}

// WithDefaults registers fallback values used when neither the file nor the
// environment provides a key.
func WithDefaults(defaults map[string]any) Option {
	return func(o *options) {
		for k, v := range defaults {
			o.defaults[k] = v
		}
	}
}

// WithEnv enables environment overrides. A key such as "app.server.port" is
// read from APP_SERVER_PORT.
func WithEnv() Option {
	return func(o *options) {
		o.envEnabled = true
	}
}

// WithEnvAlias binds extra environment variable names to key, checked after
// the derived name. It implies WithEnv.
func WithEnvAlias(key string, envNames ...string) Option {
	return func(o *options) {
		o.envEnabled = true
		o.aliases[key] = append(o.aliases[key], envNames...)
	}
}

// WithDotEnv loads variables from the given .env files into the process
// environment before reading. Missing files are ignored and variables
// already set in the environment are not overwritten.
func WithDotEnv(paths ...string) Option {
	return func(o *options) {
		o.envEnabled = true
		o.dotEnvs = append(o.dotEnvs, paths...)
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		defaults: make(map[string]any),
		aliases:  make(map[string][]string),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
