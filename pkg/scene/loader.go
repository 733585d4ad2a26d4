package scene

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"time"

	apperrors "github.com/philipparndt/segtag/pkg/errors"
	"github.com/philipparndt/segtag/pkg/openscad"
	"github.com/philipparndt/segtag/pkg/placement"
	"github.com/philipparndt/segtag/pkg/stl"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader reads segment files into placement surfaces
type Loader struct {
	log      *zap.Logger
	openscad string
	workers  int
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithLogger sets the logger used for load progress
func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

// WithOpenSCAD sets the OpenSCAD binary used for .scad segments
func WithOpenSCAD(binary string) LoaderOption {
	return func(l *Loader) { l.openscad = binary }
}

// WithWorkers limits how many segment files are read at once
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) { l.workers = n }
}

// NewLoader creates a loader
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		log:     zap.NewNop(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.workers <= 0 {
		l.workers = 1
	}
	return l
}

// Load reads every segment of m concurrently. Surfaces come back in
// manifest order; the first failing segment cancels the rest.
func (l *Loader) Load(ctx context.Context, m *Manifest) ([]placement.Surface, error) {
	start := time.Now()
	surfaces := make([]placement.Surface, len(m.Segments))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, seg := range m.Segments {
		g.Go(func() error {
			s, err := l.loadSegment(ctx, m, seg)
			if err != nil {
				return err
			}
			surfaces[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.log.Debug("scene loaded",
		zap.String("scene", m.Name),
		zap.Int("segments", len(surfaces)),
		zap.Duration("elapsed", time.Since(start)))
	return surfaces, nil
}

func (l *Loader) loadSegment(ctx context.Context, m *Manifest, seg Segment) (placement.Surface, error) {
	if err := ctx.Err(); err != nil {
		return placement.Surface{}, err
	}

	path := m.Resolve(seg)
	var (
		model *stl.Model
		err   error
	)
	if openscad.IsSource(path) {
		l.log.Info("rendering OpenSCAD segment", zap.String("segment", seg.ID), zap.String("file", path))
		model, err = openscad.NewRenderer(filepath.Dir(path), l.openscad).Load(ctx, path)
	} else {
		model, err = stl.Parse(path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return placement.Surface{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "segment %q", seg.ID)
		}
		return placement.Surface{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "segment %q", seg.ID)
	}

	points := model.Points()
	if len(points) == 0 {
		l.log.Warn("segment has no surface points", zap.String("segment", seg.ID))
	}
	l.log.Debug("segment loaded",
		zap.String("segment", seg.ID),
		zap.Int("triangles", model.TriangleCount()),
		zap.Int("points", len(points)))

	s := placement.NewSurface(seg.ID, seg.Name, seg.DisplayColor(), points)
	s.Triangles = model.TriangleCount()
	s.Area = model.SurfaceArea()
	return s, nil
}

// WatchFiles returns every file whose change alters the scene: the
// manifest itself, each STL file and each OpenSCAD source with its
// use/include dependencies.
func (l *Loader) WatchFiles(m *Manifest) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	if m.Path != "" {
		if abs, err := filepath.Abs(m.Path); err == nil {
			add(abs)
		}
	}
	for _, seg := range m.Segments {
		path := m.Resolve(seg)
		if !openscad.IsSource(path) {
			add(path)
			continue
		}
		deps, err := openscad.NewRenderer(filepath.Dir(path), l.openscad).ResolveDependencies(path)
		if err != nil {
			return nil, err
		}
		for _, d := range deps {
			add(d)
		}
	}
	return files, nil
}
