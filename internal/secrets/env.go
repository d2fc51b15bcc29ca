package secrets

import "os"

// Environment is a read-only view of process environment variables.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// OSEnv reads the real process environment.
type OSEnv struct{}

// LookupEnv calls os.LookupEnv.
func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is an in-memory Environment.
type MapEnv map[string]string

// LookupEnv returns the value stored under key.
func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
