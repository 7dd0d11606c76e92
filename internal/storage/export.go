package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

type ExportData struct {
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Drive      string             `json:"drive"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Total      float64            `json:"total"`
	Species    []string           `json:"species"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Activities [][]float64        `json:"activities,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	TotalDrift float64            `json:"total_drift"`
}

func exportData(model, integrator, drive string, dt, duration, total float64, species []string, result *kinetics.Result) ExportData {
	data := ExportData{
		Model:      model,
		Integrator: integrator,
		Drive:      drive,
		Dt:         dt,
		Duration:   duration,
		Total:      total,
		Species:    species,
		Steps:      len(result.Times),
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Activities: make([][]float64, len(result.Activities)),
		Metrics:    result.Metrics,
		TotalDrift: result.TotalDrift,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	for i, a := range result.Activities {
		data.Activities[i] = a
	}
	return data
}

func writeExport(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes the full run as an indented JSON document.
func ExportJSON(path string, model, integrator, drive string, dt, duration, total float64, species []string, result *kinetics.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, exportData(model, integrator, drive, dt, duration, total, species, result))
}

// ExportJSONStdout writes the same document to standard output.
func ExportJSONStdout(model, integrator, drive string, dt, duration, total float64, species []string, result *kinetics.Result) error {
	return writeExport(os.Stdout, exportData(model, integrator, drive, dt, duration, total, species, result))
}
