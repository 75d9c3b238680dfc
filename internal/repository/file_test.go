package repository

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/domain"
)

func TestStoreAndGet(t *testing.T) {
	movies := []domain.Movie{
		{ID: "tt0372784", Title: "Batman Begins", Year: "2005", Plot: domain.NotAvailable},
		{ID: "tt0944947", Title: "Game of Thrones", Year: "2011–2019", Actors: "Emilia Clarke, Peter Dinklage"},
	}

	for _, name := range []string{"snapshot.json", "snapshot.yaml", "nested/dir/snapshot.yml"} {
		t.Run(name, func(t *testing.T) {
			r := NewFileRepository(zerolog.Nop())
			path := filepath.Join(t.TempDir(), name)

			if err := r.Store(context.Background(), path, movies); err != nil {
				t.Fatalf("Store() error = %v", err)
			}
			got, err := r.Get(context.Background(), path)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !reflect.DeepEqual(got, movies) {
				t.Fatalf("Get() = %+v, want %+v", got, movies)
			}
		})
	}
}

func TestStoreFormat(t *testing.T) {
	r := NewFileRepository(zerolog.Nop())
	dir := t.TempDir()
	movies := []domain.Movie{{ID: "tt1", Title: "One"}}

	yamlPath := filepath.Join(dir, "out.yaml")
	if err := r.Store(context.Background(), yamlPath, movies); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(yamlPath)
	if !strings.Contains(string(b), "imdbID: tt1") {
		t.Errorf("yaml snapshot = %s", b)
	}

	jsonPath := filepath.Join(dir, "out.json")
	if err := r.Store(context.Background(), jsonPath, nil); err != nil {
		t.Fatal(err)
	}
	b, _ = os.ReadFile(jsonPath)
	if !strings.Contains(string(b), `"movies": []`) {
		t.Errorf("empty json snapshot = %s", b)
	}
}

func TestGetErrors(t *testing.T) {
	r := NewFileRepository(zerolog.Nop())
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0644)

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(dir, "missing.json")},
		{name: "directory", path: dir},
		{name: "malformed", path: bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Get(context.Background(), tt.path); err == nil {
				t.Fatal("Get() error = nil")
			}
		})
	}
}
