// Package source defines the dictionary source abstraction consumed by the
// cache, plus in-process implementations: an in-memory source and a
// rate-limited wrapper. Backend-specific sources live in subpackages.
package source
