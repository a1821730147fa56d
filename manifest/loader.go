package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// LoadFile loads a manifest, choosing HCL for a .hcl extension and YAML
// otherwise.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return ParseHCL(data, path)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var mf File

	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

type hclFile struct {
	Version  string        `hcl:"version,optional"`
	Bindings []*hclBinding `hcl:"binding,block"`
}

type hclBinding struct {
	Target     string   `hcl:"target,label"`
	Property   string   `hcl:"property,optional"`
	Path       string   `hcl:"path"`
	Kind       string   `hcl:"kind,optional"`
	Direction  string   `hcl:"direction,optional"`
	ComputedBy []string `hcl:"computed_by,optional"`
	BestEffort bool     `hcl:"best_effort,optional"`
}

// ParseHCL parses HCL data into a File. filename is used in error messages.
func ParseHCL(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL manifest %s: %w", filename, diags)
	}

	var parsed hclFile

	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL manifest %s: %w", filename, diags)
	}

	mf := File{Version: parsed.Version}
	for _, b := range parsed.Bindings {
		mf.Bindings = append(mf.Bindings, Entry{
			Target:     b.Target,
			Property:   b.Property,
			Path:       b.Path,
			Kind:       b.Kind,
			Direction:  b.Direction,
			ComputedBy: b.ComputedBy,
			BestEffort: b.BestEffort,
		})
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *File) {
	if mf.Version == "" {
		mf.Version = CurrentVersion
	}

	for i := range mf.Bindings {
		e := &mf.Bindings[i]
		if e.Property == "" {
			e.Property = DefaultProperty
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(mf *File) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a File as YAML to the given path.
func WriteFile(mf *File, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}

	return nil
}
