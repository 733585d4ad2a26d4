package main

import (
	"context"
	"fmt"

	"github.com/philipparndt/segtag/internal/logger"
	"github.com/philipparndt/segtag/pkg/placement"
	"github.com/philipparndt/segtag/pkg/scene"
	"github.com/philipparndt/segtag/pkg/tags"
	"github.com/spf13/cobra"
)

func newLoader() *scene.Loader {
	return scene.NewLoader(
		scene.WithLogger(logger.Named("scene")),
		scene.WithOpenSCAD(cfg.OpenSCAD.Binary),
	)
}

// loadScene opens a manifest or directory and loads its surfaces
func loadScene(ctx context.Context, loader *scene.Loader, path string) (*scene.Manifest, []placement.Surface, error) {
	m, err := scene.Open(path)
	if err != nil {
		return nil, nil, err
	}
	surfaces, err := loader.Load(ctx, m)
	if err != nil {
		return nil, nil, err
	}
	return m, surfaces, nil
}

func addSizeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("size", 0, "tag size (default from config)")
	cmd.Flags().String("preset", "", "tag size preset: S, M, L or XL")
}

// tagSize resolves --size and --preset. A valid --size has already been
// applied to cfg during setup.
func tagSize(cmd *cobra.Command) (float64, error) {
	size, _ := cmd.Flags().GetFloat64("size")
	preset, _ := cmd.Flags().GetString("preset")

	sizeSet := cmd.Flags().Changed("size")
	switch {
	case sizeSet && preset != "":
		return 0, fmt.Errorf("--size and --preset are mutually exclusive")
	case preset != "":
		return tags.PresetSize(preset)
	case sizeSet:
		if size < 0 {
			return 0, fmt.Errorf("--size must not be negative, got %v", size)
		}
		return size, nil
	default:
		return cfg.Tags.Size, nil
	}
}

// hiddenSet returns the ids of segments the manifest switches off
func hiddenSet(m *scene.Manifest) map[string]bool {
	hidden := make(map[string]bool)
	for _, id := range m.HiddenSegments() {
		hidden[id] = true
	}
	return hidden
}
