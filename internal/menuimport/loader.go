package menuimport

import (
	"context"
	"fmt"
	"os"

	"restaurant-pos/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based menu loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "menu-loader").Logger(),
	}
}

// Load reads a CSV file from disk.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.MenuItemRequest, error) {
	l.logger.Info().Str("file", path).Msg("loading menu file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open menu file")
		return nil, fmt.Errorf("failed to open menu file %s: %w", path, err)
	}
	defer file.Close()

	items, err := Parse(ctx, file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to parse menu file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("items", len(items)).
		Msg("menu file loaded")

	return items, nil
}
