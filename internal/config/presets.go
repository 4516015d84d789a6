package config

import "sort"

// CompactBreakpoint is the viewport width, in pixels, below which the
// layout and the backdrop switch to their compact variants.
const CompactBreakpoint = 768

// Presets are named viewport widths in pixels.
var Presets = map[string]int{
	"mobile":  375,
	"tablet":  768,
	"laptop":  1280,
	"desktop": 1440,
}

func GetPreset(name string) (int, error) {
	w, ok := Presets[name]
	if !ok {
		return 0, ErrUnknownPreset
	}
	return w, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return Presets[names[i]] < Presets[names[j]] })
	return names
}
