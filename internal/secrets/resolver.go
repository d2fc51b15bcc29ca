// Package secrets resolves the Maps API key a Flutter app needs at launch.
//
// Resolution tries, in order, a process environment variable, the matching
// entry in the dart-define blob embedded in build metadata, and finally a
// placeholder. A placeholder result is never accepted.
package secrets

// Resolver resolves the API key from an environment and a define blob.
type Resolver interface {
	// Resolve returns the resolved key, or an error wrapping
	// ErrMissingConfiguration when no usable key was configured.
	// An empty blob is treated as absent.
	Resolve(env Environment, blob string) (Resolution, error)
}
