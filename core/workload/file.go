package workload

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/schedsim/core/model"
)

// Entry is one process of a workload file.
type Entry struct {
	ID      int `json:"id" yaml:"id"`
	Arrival int `json:"arrival" yaml:"arrival"`
	Total   int `json:"total" yaml:"total"`
}

// File is the on-disk form of a population. Params and Seed are informative
// and record how the population was produced.
type File struct {
	Params    Params  `json:"params" yaml:"params"`
	Seed      uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
	Processes []Entry `json:"processes" yaml:"processes"`
}

// Registry converts the file into a fresh registry.
func (f File) Registry() (*model.Registry, error) {
	if len(f.Processes) == 0 {
		return nil, fmt.Errorf("workload has no processes")
	}
	ps := make([]model.Process, len(f.Processes))
	for i, e := range f.Processes {
		ps[i] = model.NewProcess(e.ID, e.Arrival, e.Total)
	}
	return model.NewRegistry(ps)
}

// FromRegistry captures the static part of reg.
func FromRegistry(reg *model.Registry, p Params, seed uint64) File {
	f := File{Params: p, Seed: seed, Processes: make([]Entry, reg.Len())}
	for i, proc := range reg.Processes {
		f.Processes[i] = Entry{ID: proc.ID, Arrival: proc.Arrival, Total: proc.Total}
	}
	return f
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// LoadFile reads a workload from a JSON or YAML file.
func LoadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer func() { _ = f.Close() }()
	return Decode(f, formatOf(path))
}

// Decode reads a workload in the given format ("json", "yaml" or "yml").
func Decode(r io.Reader, format string) (File, error) {
	var wf File
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&wf); err != nil {
			return wf, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&wf); err != nil {
			return wf, err
		}
	default:
		return wf, fmt.Errorf("unsupported workload format: %s", format)
	}
	return wf, nil
}

// SaveFile writes the workload to path, choosing the format from its extension.
func SaveFile(path string, wf File) error {
	format := formatOf(path)
	if format != "json" && format != "yaml" && format != "yml" {
		return fmt.Errorf("unsupported workload format: %s", format)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, format, wf); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes wf to w in the given format.
func Encode(w io.Writer, format string, wf File) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(wf); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(wf)
	default:
		return fmt.Errorf("unsupported workload format: %s", format)
	}
}
