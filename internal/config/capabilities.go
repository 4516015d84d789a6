package config

// Capabilities are resolved once at startup and passed down. Nothing below
// the front end re-detects them.
type Capabilities struct {
	WidthPx int
	Compact bool
	Touch   bool
	Audio   bool
}

// Pointer reports whether pointer hover and parallax are active.
func (c Capabilities) Pointer() bool { return !c.Touch }

// Resolve derives capabilities from the config and the viewport width in
// pixels. A pinned viewport width in the config wins over widthPx.
func Resolve(cfg *Config, widthPx int) Capabilities {
	if cfg.Viewport.Width > 0 {
		widthPx = cfg.Viewport.Width
	}
	compact := widthPx < CompactBreakpoint
	touch := false
	switch cfg.Input.Mode {
	case "touch":
		touch = true
	case "auto":
		touch = compact
	}
	return Capabilities{
		WidthPx: widthPx,
		Compact: compact,
		Touch:   touch,
		Audio:   cfg.Audio.Enabled && cfg.Audio.Sink != "none",
	}
}

// CellsToPixels converts a terminal size in cells to pixels.
func (c *Config) CellsToPixels(cols, rows int) (int, int) {
	return cols * c.Viewport.CellWidth, rows * c.Viewport.CellHeight
}
