package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/termfolio/internal/field"
)

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type snapshot struct {
	*Run
	Nodes [][3]float64 `json:"nodes"`
	Edges []field.Edge `json:"edges"`
	Cam   point        `json:"camera"`
}

// WriteJSON writes the run plus the final frame's geometry.
func WriteJSON(w io.Writer, r *Run) error {
	snap := snapshot{Run: r, Edges: r.Last.Edges}
	snap.Nodes = make([][3]float64, len(r.Last.Nodes))
	for i, n := range r.Last.Nodes {
		snap.Nodes[i] = [3]float64{n.X, n.Y, n.Z}
	}
	c := r.Last.Camera.Position
	snap.Cam = point{c.X, c.Y, c.Z}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// WriteCSV writes one row per frame.
func WriteCSV(w io.Writer, r *Run) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "edges", "edge_opacity", "node_opacity"}); err != nil {
		return err
	}
	for _, f := range r.Frames {
		row := []string{
			strconv.FormatUint(f.Index, 10),
			strconv.Itoa(f.Edges),
			strconv.FormatFloat(f.EdgeOpacity, 'f', 6, 64),
			strconv.FormatFloat(f.NodeOpacity, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile creates path and hands it to write.
func ToFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
