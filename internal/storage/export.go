package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/celestial/internal/sim"
)

type ExportData struct {
	Scene      string             `json:"scene"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Frames     int                `json:"frames"`
	Collisions int                `json:"collisions"`
	Removed    int                `json:"removed"`
	Snapshots  []ExportSnapshot   `json:"snapshots"`
	Metrics    map[string]float64 `json:"metrics"`
}

type ExportSnapshot struct {
	Frame  int          `json:"frame"`
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportBody struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
}

// ExportJSON writes a run as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, snaps []sim.Snapshot) error {
	data := ExportData{
		Scene:      meta.Scene,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Frames:     meta.Frames,
		Collisions: meta.Collisions,
		Removed:    meta.Removed,
		Snapshots:  make([]ExportSnapshot, len(snaps)),
		Metrics:    meta.Metrics,
	}

	for i, snap := range snaps {
		bodies := make([]ExportBody, len(snap.Bodies))
		for j, b := range snap.Bodies {
			bodies[j] = ExportBody{
				X: b.Position.X, Y: b.Position.Y,
				VX: b.Velocity.X, VY: b.Velocity.Y,
				Radius: b.Radius, Mass: b.Mass,
			}
		}
		data.Snapshots[i] = ExportSnapshot{Frame: snap.Frame, Time: snap.Time, Bodies: bodies}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
