package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gzsim/internal/hydro"
)

const (
	metadataFile = "metadata.json"
	curveFile    = "curve.csv"
	pointsFile   = "points.csv"
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
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Hull         string             `json:"hull"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	NumPoints    int                `json:"num_points"`
	Mass         float64            `json:"mass"`
	Density      float64            `json:"density"`
	Volume       float64            `json:"volume"`
	CenterOfMass [3]float64         `json:"center_of_mass"`
	Convention   string             `json:"convention"`
	ElapsedMS    float64            `json:"elapsed_ms"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes the metadata, the curve and, when non-nil, the sampled cloud
// under a new run directory and returns its ID.
func (s *Store) Save(meta RunMetadata, curve *hydro.Curve, cloud hydro.PointCloud) (string, error) {
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, time.Now().UnixNano())
	meta.Timestamp = time.Now()
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	rows := [][]string{{"angle_deg", "arm_m", "waterline_m", "cob_x", "cob_y", "cob_z"}}
	for _, p := range curve.Points {
		rows = append(rows, formatRow(p.Angle, p.Arm, p.Waterline, p.Buoyancy.X(), p.Buoyancy.Y(), p.Buoyancy.Z()))
	}
	if err := writeCSV(filepath.Join(runDir, curveFile), rows); err != nil {
		return "", err
	}

	if cloud != nil {
		if err := s.saveCloud(filepath.Join(runDir, pointsFile), cloud); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

func (s *Store) saveCloud(path string, cloud hydro.PointCloud) error {
	rows := make([][]string, 0, len(cloud)+1)
	rows = append(rows, []string{"x", "y", "z"})
	for _, p := range cloud {
		rows = append(rows, formatRow(p.X(), p.Y(), p.Z()))
	}
	return writeCSV(path, rows)
}

// List returns all readable runs, oldest first.
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

func (s *Store) LoadCurve(runID string) (*hydro.Curve, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	records, err := readCSV(filepath.Join(s.baseDir, runID, curveFile), 6)
	if err != nil {
		return nil, err
	}

	curve := &hydro.Curve{
		Points:     make([]hydro.CurvePoint, 0, len(records)),
		Convention: hydro.Convention(meta.Convention),
		NumPoints:  meta.NumPoints,
	}
	for _, r := range records {
		curve.Points = append(curve.Points, hydro.CurvePoint{
			Angle:     r[0],
			Arm:       r[1],
			Waterline: r[2],
			Buoyancy:  mgl64.Vec3{r[3], r[4], r[5]},
		})
	}

	return curve, nil
}

// LoadCloud returns the cloud saved with a run so it can be reused without
// resampling.
func (s *Store) LoadCloud(runID string) (hydro.PointCloud, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, pointsFile), 3)
	if err != nil {
		return nil, err
	}

	cloud := make(hydro.PointCloud, len(records))
	for i, r := range records {
		cloud[i] = mgl64.Vec3{r[0], r[1], r[2]}
	}
	return cloud, nil
}

func formatRow(vals ...float64) []string {
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return row
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// readCSV parses every data row after the header into width floats.
func readCSV(path string, width int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = width

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, nil
	}

	out := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		vals := make([]float64, width)
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", filepath.Base(path), i+1, err)
			}
			vals[j] = v
		}
		out = append(out, vals)
	}

	return out, nil
}
