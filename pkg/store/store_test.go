package store

import (
	"context"
	"testing"
	"time"

	"github.com/mhaertel/inkboard/pkg/errors"
	"github.com/mhaertel/inkboard/pkg/scene"
)

func testDoc(prompt string) *Infographic {
	return &Infographic{
		Prompt: prompt,
		Scene: &scene.Scene{
			Title: "Test",
			Type:  scene.TypeProcess,
			Nodes: []scene.Node{{ID: "a"}, {ID: "b"}},
		},
		SceneHash: "abc123",
		Format:    "png",
		Theme:     "dark",
		Width:     1600,
		Height:    1000,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	doc := testDoc("how RAG works")
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("Put should assign an ID")
	}
	if doc.CreatedAt.IsZero() {
		t.Fatal("Put should assign a timestamp")
	}

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Prompt != "how RAG works" {
		t.Errorf("Prompt = %q", got.Prompt)
	}
	if got.Scene == nil || len(got.Scene.Nodes) != 2 {
		t.Error("scene did not round-trip")
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "nope")
	if err == nil {
		t.Fatal("expected error for unknown ID")
	}
	if !errors.Is(err, errors.ErrCodeInfographicNotFound) {
		t.Errorf("error code = %v, want INFOGRAPHIC_NOT_FOUND", errors.GetCode(err))
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		doc := testDoc("p")
		doc.ID = string(rune('a' + i))
		doc.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := s.Put(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("len = %d, want 3", len(docs))
	}
	if docs[0].ID != "c" || docs[2].ID != "a" {
		t.Errorf("order = %s,%s,%s, want c,b,a", docs[0].ID, docs[1].ID, docs[2].ID)
	}

	docs, err = s.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Errorf("limited len = %d, want 2", len(docs))
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := testDoc("p")
	if err := s.Put(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, doc.ID); err == nil {
		t.Error("expected not-found after delete")
	}

	// Deleting a missing ID is not an error.
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing ID: %v", err)
	}
}

func TestMemoryStorePutCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := testDoc("p")
	if err := s.Put(ctx, doc); err != nil {
		t.Fatal(err)
	}
	doc.Prompt = "mutated after put"

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Prompt != "p" {
		t.Error("store should not alias the caller's document")
	}
}
