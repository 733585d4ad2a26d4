package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/philipparndt/segtag/internal/logger"
	"github.com/philipparndt/segtag/pkg/analysis"
	apperrors "github.com/philipparndt/segtag/pkg/errors"
	"github.com/philipparndt/segtag/pkg/scene"
	"github.com/philipparndt/segtag/pkg/tags"
	"github.com/philipparndt/segtag/pkg/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [manifest|dir]",
	Short: "Recompute labels whenever a segment file changes",
	Long: `Load the scene, create labels and print them. Every change to the manifest
or a segment file (including OpenSCAD use/include dependencies) reloads the
scene and places the labels again.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addSizeFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

// sceneWatch keeps a tag session in sync with the files of one scene
type sceneWatch struct {
	mu      sync.Mutex
	path    string
	loader  *scene.Loader
	session *tags.Session
	fw      *watcher.FileWatcher
	out     io.Writer
	log     *zap.Logger
}

func runWatch(cmd *cobra.Command, args []string) error {
	size, err := tagSize(cmd)
	if err != nil {
		return err
	}

	log := logger.Named("watch")
	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, log)
	if err != nil {
		return err
	}
	defer fw.Close()

	session := tags.NewSession(cfg.TagOptions())
	session.ChangeSize(size)

	sw := &sceneWatch{
		path:    args[0],
		loader:  newLoader(),
		session: session,
		fw:      fw,
		out:     cmd.OutOrStdout(),
		log:     log,
	}

	ctx := cmd.Context()
	sw.mu.Lock()
	err = sw.reload(ctx)
	sw.mu.Unlock()
	if err != nil {
		return err
	}

	log.Info("watching scene", zap.String("scene", sw.path))
	fw.Run(ctx)
	return nil
}

// reload loads the scene again, places the tags and refreshes the watch
// list. Callers hold sw.mu.
func (sw *sceneWatch) reload(ctx context.Context) error {
	m, surfaces, err := loadScene(ctx, sw.loader, sw.path)
	if err != nil {
		return err
	}

	sw.session.SetSurfaces(surfaces)
	hidden := hiddenSet(m)
	for _, s := range surfaces {
		sw.session.SetSegmentVisible(s.ID, !hidden[s.ID])
	}
	if !sw.session.HasTags() {
		if _, err := sw.session.Create(sw.session.Size()); err != nil {
			printWarning(sw.out, "%s", apperrors.UserMessage(err))
		}
	}
	printTags(sw.out, m.Name, sw.session)

	files, err := sw.loader.WatchFiles(m)
	if err != nil {
		return err
	}
	if err := sw.fw.RemoveAll(); err != nil {
		return err
	}
	return sw.fw.Watch(files, func(path string) {
		sw.mu.Lock()
		defer sw.mu.Unlock()

		sw.log.Info("file changed, reloading", zap.String("file", path))
		if err := sw.reload(ctx); err != nil {
			sw.log.Error("reload failed", zap.Error(err))
			printWarning(sw.out, "reload failed: %v", err)
		}
	})
}

func printTags(w io.Writer, name string, session *tags.Session) {
	printTitle(w, fmt.Sprintf("Labels for %s", name))
	printKeyValue(w, "Tag size", fmt.Sprintf("%g", session.Size()))
	for _, t := range session.Tags() {
		visible := "yes"
		if !t.Visible {
			visible = "no"
		}
		fmt.Fprintln(w, segmentLabel(t.Text, t.SegmentID, t.Color))
		printKeyValue(w, "Leader start", analysis.FormatVector(t.LeaderStart))
		printKeyValue(w, "Text anchor", analysis.FormatVector(t.TextAnchor))
		printKeyValue(w, "Visible", visible)
	}
	printStatus(w, session.Status())
	fmt.Fprintln(w)
}
