package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/layergraph/internal/blueprint"
	"github.com/specialistvlad/layergraph/internal/builder"
	"github.com/specialistvlad/layergraph/internal/ctxlog"
	"github.com/specialistvlad/layergraph/internal/registry"
)

// Run loads the templates and the blueprint, builds the network and writes
// its emission plan.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	reg, err := registry.Load(ctx, a.config.TemplatesPath)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	bp, err := blueprint.Load(ctx, a.config.BlueprintPath)
	if err != nil {
		return fmt.Errorf("failed to load blueprint: %w", err)
	}

	g, err := builder.Build(ctx, bp, reg)
	if err != nil {
		return fmt.Errorf("failed to build network: %w", err)
	}

	plan := NewPlan(g)
	a.logger.Info("Network built.", "name", plan.Name, "layers", len(plan.Layers), "depth", plan.Depth())

	switch a.config.OutputFormat {
	case "json":
		err = plan.WriteJSON(a.outW)
	default:
		err = plan.WriteText(a.outW)
	}
	if err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
