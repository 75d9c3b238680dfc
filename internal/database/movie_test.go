package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/domain"
)

func newTestRepo(t *testing.T) *MovieRepo {
	t.Helper()

	db, err := NewDB(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewMovieRepo(zerolog.Nop(), db)
}

func TestInsertOrReplace_KeepsSingleRowWithLatestFields(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if got, err := repo.ByID(ctx, "tt1092737"); err != nil || len(got) != 0 {
		t.Fatalf("ByID on empty store = %v, %v", got, err)
	}

	for _, title := range []string{"MyName", "MyNameUpdate", "MyNameFinal"} {
		if err := repo.InsertOrReplace(ctx, domain.Movie{ID: "tt1092737", Title: title}); err != nil {
			t.Fatalf("InsertOrReplace(%s): %v", title, err)
		}
	}

	got, err := repo.ByID(ctx, "tt1092737")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ByID returned %d rows, want 1", len(got))
	}
	if got[0].Title != "MyNameFinal" {
		t.Errorf("Title = %q, want MyNameFinal", got[0].Title)
	}
	if got[0].Plot != domain.NotAvailable {
		t.Errorf("Plot = %q, want %q", got[0].Plot, domain.NotAvailable)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1", count)
	}
}

func TestInsertOrReplace_RequiresID(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.InsertOrReplace(context.Background(), domain.Movie{Title: "x"}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestAll_PagesInStableOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for i, c := range "abcdefghijklmnopqrstuvwxyz" {
		if err := repo.InsertOrReplace(ctx, domain.Movie{ID: fmt.Sprint(i), Title: string(c)}); err != nil {
			t.Fatalf("InsertOrReplace: %v", err)
		}
	}

	// an update must not move the row
	if err := repo.InsertOrReplace(ctx, domain.Movie{ID: "0", Title: "a2"}); err != nil {
		t.Fatalf("InsertOrReplace: %v", err)
	}

	wantSizes := []int{10, 10, 6, 0}
	for page, want := range wantSizes {
		got, err := repo.All(ctx, page*10, 10)
		if err != nil {
			t.Fatalf("All(%d): %v", page, err)
		}
		if len(got) != want {
			t.Errorf("All page %d returned %d rows, want %d", page, len(got), want)
		}
	}

	first, _ := repo.All(ctx, 0, 1)
	if len(first) != 1 || first[0].ID != "0" || first[0].Title != "a2" {
		t.Errorf("first row = %+v, want id 0 titled a2", first)
	}
}

func TestBySubstring(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	movies := []domain.Movie{
		{ID: "1", Title: "The Imitation Game"},
		{ID: "2", Title: "Game of Thrones"},
		{ID: "3", Title: "Heat"},
		{ID: "4", Title: "100% Wolf"},
	}
	for _, m := range movies {
		if err := repo.InsertOrReplace(ctx, m); err != nil {
			t.Fatalf("InsertOrReplace: %v", err)
		}
	}

	tests := []struct {
		name   string
		query  string
		offset int
		want   []string
	}{
		{name: "case insensitive", query: "game", want: []string{"1", "2"}},
		{name: "offset", query: "game", offset: 1, want: []string{"2"}},
		{name: "no match", query: "matrix", want: []string{}},
		{name: "wildcard is literal", query: "%", want: []string{"4"}},
		{name: "underscore is literal", query: "_", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.BySubstring(ctx, tt.query, tt.offset, 10)
			if err != nil {
				t.Fatalf("BySubstring: %v", err)
			}
			ids := domain.IDs(got)
			if fmt.Sprint(ids) != fmt.Sprint(tt.want) {
				t.Errorf("BySubstring(%q) = %v, want %v", tt.query, ids, tt.want)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.InsertOrReplace(ctx, domain.Movie{ID: "tt1"}); err != nil {
		t.Fatalf("InsertOrReplace: %v", err)
	}
	if err := repo.Delete(ctx, "tt1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := repo.ByID(ctx, "tt1"); len(got) != 0 {
		t.Errorf("movie still cached after Delete: %v", got)
	}
}

func TestNewDB_ReopenKeepsSchema(t *testing.T) {
	dir := t.TempDir()

	db, err := NewDB(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := NewMovieRepo(zerolog.Nop(), db).InsertOrReplace(context.Background(), domain.Movie{ID: "tt1"}); err != nil {
		t.Fatalf("InsertOrReplace: %v", err)
	}
	db.Close()

	db, err = NewDB(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen NewDB: %v", err)
	}
	defer db.Close()

	got, err := NewMovieRepo(zerolog.Nop(), db).ByID(context.Background(), "tt1")
	if err != nil || len(got) != 1 {
		t.Fatalf("ByID after reopen = %v, %v", got, err)
	}
}
