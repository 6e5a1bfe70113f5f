package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/config"
	"github.com/san-kum/celestial/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var framesHeader = []string{"frame", "time", "body", "x", "y", "vx", "vy", "radius", "mass"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       uint64             `json:"seed"`
	Dt         float64            `json:"dt"`
	Frames     int                `json:"frames"`
	Substeps   int                `json:"substeps"`
	Integrator string             `json:"integrator"`
	Contact    string             `json:"contact"`
	Bodies     int                `json:"bodies"`
	Collisions int                `json:"collisions"`
	Removed    int                `json:"removed"`
	Metrics    map[string]float64 `json:"metrics"`
	Config     *config.Config     `json:"config,omitempty"`
}

// NewMetadata describes a finished run of cfg.
func NewMetadata(cfg *config.Config, result *sim.Result) RunMetadata {
	scene := cfg.Name
	if scene == "" {
		scene = "custom"
	}
	return RunMetadata{
		Scene:      scene,
		Timestamp:  time.Now(),
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Frames:     result.Frames,
		Substeps:   cfg.Substeps,
		Integrator: cfg.Integrator,
		Contact:    cfg.Physics.Contact,
		Bodies:     cfg.Bodies.Count,
		Collisions: result.Collisions,
		Removed:    result.Removed,
		Metrics:    result.Metrics,
		Config:     cfg,
	}
}

// Save writes the run under a fresh directory and returns its ID.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Scene, meta.Timestamp.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Snapshots); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadFramesCSV(file)
}

// WriteFramesCSV writes one row per body per snapshot.
func WriteFramesCSV(w io.Writer, snaps []sim.Snapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(framesHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, snap := range snaps {
		for i, b := range snap.Bodies {
			row := []string{
				strconv.Itoa(snap.Frame),
				format(snap.Time),
				strconv.Itoa(i),
				format(b.Position.X),
				format(b.Position.Y),
				format(b.Velocity.X),
				format(b.Velocity.Y),
				format(b.Radius),
				format(b.Mass),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadFramesCSV parses WriteFramesCSV output back into snapshots. Snapshots
// whose bodies were all absorbed do not survive the round trip.
func ReadFramesCSV(r io.Reader) ([]sim.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(framesHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Snapshot{}, nil
	}

	snaps := make([]sim.Snapshot, 0)
	for line, record := range records[1:] {
		var vals [9]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", framesFile, line+2, err)
			}
			vals[j] = v
		}

		frame := int(vals[0])
		if len(snaps) == 0 || snaps[len(snaps)-1].Frame != frame {
			snaps = append(snaps, sim.Snapshot{Frame: frame, Time: vals[1]})
		}
		last := &snaps[len(snaps)-1]
		last.Bodies = append(last.Bodies, sim.BodyState{
			Position: r2.Vec{X: vals[3], Y: vals[4]},
			Velocity: r2.Vec{X: vals[5], Y: vals[6]},
			Radius:   vals[7],
			Mass:     vals[8],
		})
	}
	return snaps, nil
}

// ErrNoRuns is returned by Latest on an empty store.
var ErrNoRuns = errors.New("storage: no runs")

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	return &runs[len(runs)-1], nil
}
