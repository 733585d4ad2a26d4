package tags

import (
	"fmt"
	"strings"
)

// Status is the overall tag state
type Status int

const (
	StatusNoTags Status = iota
	StatusOn
	StatusOff
)

// String returns the status line text
func (s Status) String() string {
	switch s {
	case StatusOn:
		return "Tags ON"
	case StatusOff:
		return "Tags OFF"
	default:
		return "Click to create tags"
	}
}

// Preset is a named tag size
type Preset struct {
	Name string
	Size float64
}

// Presets are the sizes offered as quick choices, smallest first
var Presets = []Preset{
	{Name: "S", Size: 3},
	{Name: "M", Size: 5},
	{Name: "L", Size: 7},
	{Name: "XL", Size: 10},
}

// PresetSize looks up a preset by name, ignoring case
func PresetSize(name string) (float64, error) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p.Size, nil
		}
	}
	return 0, fmt.Errorf("unknown size preset %q (expected S, M, L or XL)", name)
}
