package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gzsim/internal/hydro"
	"github.com/san-kum/gzsim/internal/storage"
)

type Point struct {
	Angle     float64    `json:"angle_deg"`
	Arm       float64    `json:"arm_m"`
	Waterline float64    `json:"waterline_m"`
	Buoyancy  [3]float64 `json:"cob"`
}

type Data struct {
	Run        string             `json:"run,omitempty"`
	Hull       string             `json:"hull,omitempty"`
	Mass       float64            `json:"mass"`
	Density    float64            `json:"density"`
	NumPoints  int                `json:"num_points"`
	Seed       int64              `json:"seed"`
	Convention string             `json:"convention"`
	Points     []Point            `json:"points"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

func NewData(meta *storage.RunMetadata, curve *hydro.Curve) Data {
	data := Data{
		Convention: string(curve.Convention),
		NumPoints:  curve.NumPoints,
		Points:     make([]Point, len(curve.Points)),
	}
	if meta != nil {
		data.Run = meta.ID
		data.Hull = meta.Hull
		data.Mass = meta.Mass
		data.Density = meta.Density
		data.Seed = meta.Seed
		data.Metrics = meta.Metrics
	}

	for i, p := range curve.Points {
		data.Points[i] = Point{
			Angle:     p.Angle,
			Arm:       p.Arm,
			Waterline: p.Waterline,
			Buoyancy:  [3]float64{p.Buoyancy.X(), p.Buoyancy.Y(), p.Buoyancy.Z()},
		}
	}

	return data
}

func WriteJSON(w io.Writer, data Data) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data Data) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}
