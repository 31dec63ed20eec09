// Package cache provides the caching layer for the analyze and render
// pipeline: a backend interface with file, Redis, and null
// implementations, plus deterministic key derivation for scenes and
// rendered artifacts.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached item kind. Scenes are LLM output and expensive to
// reproduce; artifacts are cheap to re-render from a cached scene.
const (
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
	TTLHTTP     = time.Hour
)

// Cache is the storage backend contract. Implementations must treat a
// missing key as (nil, false, nil), not an error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SceneKeyOpts are the analyze parameters that change the produced scene.
type SceneKeyOpts struct {
	Model     string `json:"model"`
	SceneType string `json:"scene_type"`
}

// ArtifactKeyOpts are the render parameters that change the output bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Theme    string  `json:"theme"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Cols     int     `json:"cols"`
	Scale    float64 `json:"scale"`
	Seed     uint64  `json:"seed"`
	NoCrop   bool    `json:"no_crop"`
	Detailed bool    `json:"detailed"`
}

// Keyer derives cache keys. Keys must be deterministic: the same inputs
// always yield the same key, across processes and versions of the inputs'
// in-memory representation.
type Keyer interface {
	// SceneKey keys an analyzed scene by the prompt text and the analyze
	// parameters.
	SceneKey(prompt string, opts SceneKeyOpts) string
	// ArtifactKey keys rendered bytes by the scene hash and render options.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
	// HTTPKey keys a raw upstream HTTP response.
	HTTPKey(namespace, key string) string
}

// DefaultKeyer hashes inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SceneKey generates a key for scene caching.
func (k *DefaultKeyer) SceneKey(prompt string, opts SceneKeyOpts) string {
	return hashKey("scene", prompt, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}
