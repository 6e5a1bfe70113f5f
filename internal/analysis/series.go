package analysis

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/sim"
)

// Series holds one value per snapshot.
type Series struct {
	Times         []float64
	Bodies        []float64
	KineticEnergy []float64
	MeanOrbit     []float64
}

// Summarize reduces snapshots to series. MeanOrbit is the mean distance of
// the bodies to center.
func Summarize(snaps []sim.Snapshot, center r2.Vec) Series {
	s := Series{
		Times:         make([]float64, len(snaps)),
		Bodies:        make([]float64, len(snaps)),
		KineticEnergy: make([]float64, len(snaps)),
		MeanOrbit:     make([]float64, len(snaps)),
	}
	for i, snap := range snaps {
		s.Times[i] = snap.Time
		s.Bodies[i] = float64(len(snap.Bodies))

		var ke, orbit float64
		for _, b := range snap.Bodies {
			ke += 0.5 * b.Mass * r2.Norm2(b.Velocity)
			orbit += r2.Norm(r2.Sub(b.Position, center))
		}
		s.KineticEnergy[i] = ke
		if n := len(snap.Bodies); n > 0 {
			s.MeanOrbit[i] = orbit / float64(n)
		}
	}
	return s
}

// Track returns the x coordinates of body i across snapshots, stopping at the
// first snapshot where it no longer exists.
func Track(snaps []sim.Snapshot, i int) []float64 {
	xs := make([]float64, 0, len(snaps))
	for _, snap := range snaps {
		if i >= len(snap.Bodies) {
			break
		}
		xs = append(xs, snap.Bodies[i].Position.X)
	}
	return xs
}

// Path returns the positions of body i across snapshots, with the same
// stopping rule as Track.
func Path(snaps []sim.Snapshot, i int) []r2.Vec {
	ps := make([]r2.Vec, 0, len(snaps))
	for _, snap := range snaps {
		if i >= len(snap.Bodies) {
			break
		}
		ps = append(ps, snap.Bodies[i].Position)
	}
	return ps
}
