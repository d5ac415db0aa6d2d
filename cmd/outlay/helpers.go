package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/service"
	"github.com/outlay-cli/outlay/internal/storage"
)

// initStorage opens the database and runs migrations.
func initStorage(ctx context.Context) (service.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/outlay/outlay.db"
	}
	dbPath = expandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// expandPath resolves ~ and environment variables in a filesystem path.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// parseFormat validates an export format flag value.
func parseFormat(value string) (model.Format, error) {
	switch model.Format(value) {
	case model.FormatCSV, model.FormatJSON, model.FormatPDF:
		return model.Format(value), nil
	default:
		return "", fmt.Errorf("invalid format %q (expected csv, json, or pdf)", value)
	}
}

// parseCategories validates a comma-joined category flag value.
func parseCategories(values []string) ([]model.Category, error) {
	categories := make([]model.Category, 0, len(values))
	for _, v := range values {
		c, err := model.ParseCategory(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}
