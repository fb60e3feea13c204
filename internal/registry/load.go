package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/layergraph/internal/ctxlog"
	"github.com/specialistvlad/layergraph/internal/fsutil"
	"github.com/specialistvlad/layergraph/internal/template"
)

// LoadRecursively registers every template document found under path.
func (r *Registry) LoadRecursively(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading templates...", "path", path)

	filePaths, err := fsutil.FindFilesByExtension(path, template.Extensions...)
	if err != nil {
		logger.Error("Failed to walk templates directory", "path", path, "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No template files found in path", "path", path)
		return nil
	}

	logger.Debug("Found template files to load", "files", filePaths)

	for _, filePath := range filePaths {
		doc, err := template.ReadFile(filePath)
		if err != nil {
			return err
		}
		if err := r.Register(filePath, doc); err != nil {
			return err
		}
		logger.Debug("Loaded template", "file", filePath, "template", doc.Name)
	}

	logger.Info("Registry loaded successfully.", "templates_loaded", len(r.entries))
	return nil
}

// Load creates a Registry from the templates under path.
func Load(ctx context.Context, path string) (*Registry, error) {
	r := New()
	if err := r.LoadRecursively(ctx, path); err != nil {
		return nil, fmt.Errorf("loading templates from %s: %w", path, err)
	}
	return r, nil
}
