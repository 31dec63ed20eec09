// Package store persists generated infographics: the prompt, the analyzed
// scene, and metadata about the rendered artifact. The server keeps documents
// in MongoDB; tests and local development use the in-memory store.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mhaertel/inkboard/pkg/scene"
)

// Infographic is one stored generation result.
type Infographic struct {
	ID        string       `json:"id" bson:"_id"`
	Prompt    string       `json:"prompt,omitempty" bson:"prompt,omitempty"`
	Scene     *scene.Scene `json:"scene" bson:"scene"`
	SceneHash string       `json:"scene_hash" bson:"scene_hash"`
	Format    string       `json:"format" bson:"format"`
	Theme     string       `json:"theme" bson:"theme"`
	Width     int          `json:"width" bson:"width"`
	Height    int          `json:"height" bson:"height"`
	// Artifact holds the rendered bytes. Excluded from JSON responses;
	// the image endpoint serves it with the proper content type.
	Artifact  []byte    `json:"-" bson:"artifact,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewID returns a fresh document ID.
func NewID() string {
	return uuid.NewString()
}

// Store is the persistence contract. Get returns a coded
// INFOGRAPHIC_NOT_FOUND error for unknown IDs; Delete of an unknown ID is
// a no-op.
type Store interface {
	Put(ctx context.Context, info *Infographic) error
	Get(ctx context.Context, id string) (*Infographic, error)
	List(ctx context.Context, limit int) ([]*Infographic, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}
