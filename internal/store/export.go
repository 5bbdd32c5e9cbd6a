package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rykrr/pyfire/internal/config"
)

// Report is the machine-readable result of a headless run.
type Report struct {
	Config      *config.Config     `json:"config"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Ticks       int                `json:"ticks"`
	ElapsedSecs float64            `json:"elapsed_secs"`
	StepsPerSec float64            `json:"steps_per_sec"`
	Metrics     map[string]float64 `json:"metrics"`
	Loop        *LoopReport        `json:"loop,omitempty"`
	MeanHeat    []float64          `json:"mean_heat"`
}

type LoopReport struct {
	ClosedAt int `json:"closed_at"`
	Frames   int `json:"frames"`
}

// WriteJSON encodes r, indented.
func WriteJSON(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// ExportJSON writes r to path.
func ExportJSON(path string, r *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, r); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadJSON loads a report written by ExportJSON.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
