// Package scene describes which segment surfaces make up an annotated
// scene and loads them from disk.
//
// A scene is either a manifest file (YAML or TOML) listing the segments,
// or a plain directory whose STL files each become one segment.
package scene

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	apperrors "github.com/philipparndt/segtag/pkg/errors"
	"github.com/philipparndt/segtag/pkg/placement"
	"gopkg.in/yaml.v3"
)

// Segment is one manifest entry
type Segment struct {
	ID      string    `yaml:"id" toml:"id"`
	Name    string    `yaml:"name" toml:"name"`
	File    string    `yaml:"file" toml:"file"`
	Color   []float64 `yaml:"color,omitempty" toml:"color,omitempty"` // r, g, b in [0, 1]
	Visible *bool     `yaml:"visible,omitempty" toml:"visible,omitempty"`
}

// Manifest lists the segments of a scene. Segment files are resolved
// relative to Dir.
type Manifest struct {
	Name     string    `yaml:"name" toml:"name"`
	Segments []Segment `yaml:"segments" toml:"segments"`

	Path string `yaml:"-" toml:"-"` // manifest file, empty for directory scenes
	Dir  string `yaml:"-" toml:"-"`
}

// palette colors segments that do not set one
var palette = []placement.Color{
	{R: 0.945, G: 0.839, B: 0.569},
	{R: 0.698, G: 0.443, B: 0.373},
	{R: 0.435, G: 0.722, B: 0.824},
	{R: 0.847, G: 0.396, B: 0.310},
	{R: 0.867, G: 0.510, B: 0.396},
	{R: 0.565, G: 0.933, B: 0.565},
	{R: 0.753, G: 0.408, B: 0.690},
	{R: 0.863, G: 0.961, B: 0.078},
}

// Open reads the scene at path, which may be a manifest file or a directory
func Open(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, fmt.Errorf("failed to stat scene %s: %w", path, err)
	}
	if info.IsDir() {
		return FromDirectory(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	m, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	m.Path = path
	m.Dir = filepath.Dir(path)
	return m, nil
}

// Decode parses manifest data; ext selects the format (".yaml", ".yml" or ".toml")
func Decode(data []byte, ext string) (*Manifest, error) {
	m := &Manifest{}

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(m); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "invalid YAML manifest")
		}
	case ".toml":
		md, err := toml.Decode(string(data), m)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "invalid TOML manifest")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidManifest, "unknown manifest key %q", undecoded[0].String())
		}
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported manifest type %q (expected .yaml, .yml or .toml)", ext)
	}

	if err := m.normalize(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromDirectory builds a manifest with one segment per STL or OpenSCAD
// file in dir, sorted by file name. Segment ids are the file stems; files
// sharing a stem keep their extension in the id.
func FromDirectory(dir string) (*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".stl", ".scad":
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	stems := make(map[string]int, len(files))
	for _, f := range files {
		stems[stem(f)]++
	}

	m := &Manifest{Name: filepath.Base(dir), Dir: dir}
	for _, f := range files {
		seg := Segment{File: f}
		if stems[stem(f)] > 1 {
			seg.ID = f
		}
		m.Segments = append(m.Segments, seg)
	}
	if err := m.normalize(); err != nil {
		return nil, err
	}
	return m, nil
}

// normalize fills defaults and validates every segment
func (m *Manifest) normalize() error {
	seen := make(map[string]bool, len(m.Segments))
	for i := range m.Segments {
		seg := &m.Segments[i]
		if seg.File == "" {
			return apperrors.New(apperrors.ErrCodeInvalidManifest, "segment %d has no file", i+1)
		}
		if seg.ID == "" {
			seg.ID = stem(seg.File)
		}
		if seg.Name == "" {
			seg.Name = seg.ID
		}
		if seen[seg.ID] {
			return apperrors.New(apperrors.ErrCodeInvalidManifest, "duplicate segment id %q", seg.ID)
		}
		seen[seg.ID] = true

		if seg.Color == nil {
			c := palette[i%len(palette)]
			seg.Color = []float64{c.R, c.G, c.B}
		}
		if len(seg.Color) != 3 {
			return apperrors.New(apperrors.ErrCodeInvalidManifest, "segment %q: color needs 3 components, got %d", seg.ID, len(seg.Color))
		}
		for _, c := range seg.Color {
			if c < 0 || c > 1 {
				return apperrors.New(apperrors.ErrCodeInvalidManifest, "segment %q: color component %v outside [0, 1]", seg.ID, c)
			}
		}
	}
	return nil
}

// Resolve returns the absolute path of a segment file
func (m *Manifest) Resolve(seg Segment) string {
	path := seg.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.Dir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// DisplayColor returns the display color of a segment
func (s Segment) DisplayColor() placement.Color {
	if len(s.Color) != 3 {
		return placement.White
	}
	return placement.Color{R: s.Color[0], G: s.Color[1], B: s.Color[2]}
}

// IsVisible reports the initial visibility of a segment (default true)
func (s Segment) IsVisible() bool {
	return s.Visible == nil || *s.Visible
}

// HiddenSegments returns the ids of segments that start hidden
func (m *Manifest) HiddenSegments() []string {
	var ids []string
	for _, seg := range m.Segments {
		if !seg.IsVisible() {
			ids = append(ids, seg.ID)
		}
	}
	return ids
}

func stem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
