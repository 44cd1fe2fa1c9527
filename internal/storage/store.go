// Package storage persists completed runs: a metadata.json per run
// plus CSV files for the sampled history and the final wake.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/vortshed/internal/sim"
	"github.com/san-kum/vortshed/internal/vortex"
)

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
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Delta     float64            `json:"delta"`
	Scheme    string             `json:"scheme"`
	NumBlobs  int                `json:"num_blobs"`
	Metrics   map[string]float64 `json:"metrics"`
}

// HistoryRow is one sampled instant reconstructed from history.csv.
type HistoryRow struct {
	Time             float64
	BodyPos          complex128
	BodyAngle        float64
	Impulse          complex128
	WakeCirculation  float64
	BoundCirculation float64
	NumBlobs         int
}

var historyHeader = []string{
	"time", "body_x", "body_y", "body_angle",
	"impulse_x", "impulse_y",
	"wake_circulation", "bound_circulation", "n_blobs",
}

func f(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }

// Save writes one run directory named <preset>_<unix> and returns its id.
func (s *Store) Save(preset string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: time.Now(),
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Delta:     cfg.Delta,
		Scheme:    cfg.Scheme,
		NumBlobs:  result.FinalWakeSize(),
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeHistory(filepath.Join(runDir, "history.csv"), result); err != nil {
		return "", err
	}
	if err := s.writeWake(filepath.Join(runDir, "wake.csv"), result); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) writeHistory(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(historyHeader); err != nil {
		return err
	}
	for _, snap := range result.Snapshots {
		row := []string{
			f(snap.Time),
			f(real(snap.BodyPos)), f(imag(snap.BodyPos)), f(snap.BodyAngle),
			f(real(snap.Impulse)), f(imag(snap.Impulse)),
			f(snap.WakeCirculation), f(snap.BoundCirculation),
			strconv.Itoa(len(snap.Blobs)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func (s *Store) writeWake(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"x", "y", "gamma"}); err != nil {
		return err
	}
	if len(result.Snapshots) == 0 {
		return w.Error()
	}
	final := result.Snapshots[len(result.Snapshots)-1]
	for _, blob := range final.Blobs {
		row := []string{f(real(blob.Pos)), f(imag(blob.Pos)), f(blob.Gamma)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadHistory reads back the sampled trace of a run.
func (s *Store) LoadHistory(runID string) ([]HistoryRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []HistoryRow{}, nil
	}

	rows := make([]HistoryRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(historyHeader) {
			continue
		}
		vals := make([]float64, len(record)-1)
		bad := false
		for i, cell := range record[:len(record)-1] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				bad = true
				break
			}
			vals[i] = v
		}
		n, err := strconv.Atoi(record[len(record)-1])
		if bad || err != nil {
			continue
		}
		rows = append(rows, HistoryRow{
			Time:             vals[0],
			BodyPos:          complex(vals[1], vals[2]),
			BodyAngle:        vals[3],
			Impulse:          complex(vals[4], vals[5]),
			WakeCirculation:  vals[6],
			BoundCirculation: vals[7],
			NumBlobs:         n,
		})
	}
	return rows, nil
}

// LoadWake reads back the final blob population of a run.
func (s *Store) LoadWake(runID string) ([]vortex.Blob, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "wake.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []vortex.Blob{}, nil
	}

	blobs := make([]vortex.Blob, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 3 {
			continue
		}
		x, err1 := strconv.ParseFloat(record[0], 64)
		y, err2 := strconv.ParseFloat(record[1], 64)
		g, err3 := strconv.ParseFloat(record[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		blobs = append(blobs, vortex.Blob{Pos: complex(x, y), Gamma: g})
	}
	return blobs, nil
}
