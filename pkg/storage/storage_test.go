package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/molview/pkg/layout"
)

func TestNewRecord(t *testing.T) {
	st := layout.Generate("c1ccccc1")
	rec := NewRecord("", "c1ccccc1", st)
	if rec.Name != "c1ccccc1" {
		t.Errorf("name should default to the source, got %q", rec.Name)
	}
	st.Name = "benzene"
	if got := NewRecord("", "c1ccccc1", st).Name; got != "benzene" {
		t.Errorf("name should prefer the structure name, got %q", got)
	}
	if got := NewRecord("ring", "c1ccccc1", st).Name; got != "ring" {
		t.Errorf("explicit name lost, got %q", got)
	}
	back, err := rec.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(back.Atoms) != 6 || len(back.Bonds) != 6 {
		t.Errorf("decoded %d atoms, %d bonds", len(back.Atoms), len(back.Bonds))
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	var ids []string
	for _, src := range []string{"CCO", "c1ccccc1", "ClBrC"} {
		rec, err := s.Save(ctx, NewRecord(src, src, layout.Generate(src)))
		if err != nil {
			t.Fatalf("Save(%s): %v", src, err)
		}
		if _, err := uuid.Parse(rec.ID); err != nil {
			t.Errorf("ID %q is not a UUID", rec.ID)
		}
		if rec.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
		ids = append(ids, rec.ID)
	}

	got, err := s.Get(ctx, ids[1])
	if err != nil || got.Name != "c1ccccc1" {
		t.Errorf("Get = %+v, %v", got, err)
	}

	list, _ := s.List(ctx, 2)
	if len(list) != 2 || list[0].Name != "ClBrC" || list[1].Name != "c1ccccc1" {
		t.Errorf("List(2) should be newest first, got %v", names(list))
	}
	if list, _ := s.List(ctx, 0); len(list) != 3 {
		t.Errorf("List(0) = %d records", len(list))
	}

	if err := s.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: %v", err)
	}
	if err := s.Delete(ctx, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: %v", err)
	}
	if list, _ := s.List(ctx, 10); len(list) != 2 {
		t.Errorf("List after Delete = %v", names(list))
	}
}

func TestMemoryStoreInvalidID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, err := s.Get(ctx, "../etc/passwd"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Get: %v", err)
	}
	if err := s.Delete(ctx, ""); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get unknown: %v", err)
	}
}

func TestNewMongoStoreConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := NewMongoStore(ctx, MongoConfig{}); err == nil {
		t.Error("empty URI should fail")
	}
	if _, err := NewMongoStore(ctx, MongoConfig{URI: "postgres://nope"}); err == nil {
		t.Error("non-mongo URI should fail")
	}
}

func names(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}
