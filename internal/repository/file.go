package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// FileRepository exports command results to files
type FileRepository struct {
	log zerolog.Logger
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

// Store writes v to path, as YAML for .yaml/.yml files and indented JSON otherwise
func (r *FileRepository) Store(ctx context.Context, path string, v any) error {
	var (
		b   []byte
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err = yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
	default:
		b, err = json.MarshalIndent(v, "", "   ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err = f.Write(b); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Int("bytes", len(b)).Msg("stored export")
	return nil
}

// Get reads a file written by Store into dest
func (r *FileRepository) Get(ctx context.Context, path string, dest any) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s: %w", path, err)
		}
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, dest)
	default:
		err = json.Unmarshal(b, dest)
	}
	if err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}

	return nil
}
