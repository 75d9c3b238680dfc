package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/domain"
	"gopkg.in/yaml.v3"
)

// Snapshot is the on-disk layout of an exported cache.
type Snapshot struct {
	Movies []domain.Movie `json:"movies" yaml:"movies"`
}

// FileRepository implements domain.SnapshotRepository using file storage.
// Files ending in .yaml or .yml are YAML, anything else is JSON.
type FileRepository struct {
	log zerolog.Logger
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

var _ domain.SnapshotRepository = (*FileRepository)(nil)

// Get reads a snapshot file
func (r *FileRepository) Get(ctx context.Context, path string) ([]domain.Movie, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	s := &Snapshot{}
	if isYAML(path) {
		if err := yaml.Unmarshal(body, s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml from %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(body, s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal json from %s: %w", path, err)
		}
	}

	r.log.Debug().Str("path", path).Int("count", len(s.Movies)).Msg("read snapshot")
	return s.Movies, nil
}

// Store writes movies to a snapshot file
func (r *FileRepository) Store(ctx context.Context, path string, movies []domain.Movie) error {
	if movies == nil {
		movies = []domain.Movie{}
	}
	s := &Snapshot{Movies: movies}

	var (
		b   []byte
		err error
	)
	if isYAML(path) {
		b, err = yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
	} else {
		b, err = json.MarshalIndent(s, "", "   ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Int("count", len(movies)).Msg("stored snapshot")
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
