package template

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/josephgoksu/atomize/models"
	"github.com/josephgoksu/atomize/types"
)

// Loader reads and validates template documents. It uses an afero.Fs so
// tests can run against an in-memory filesystem.
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a loader on the provided filesystem.
// Use afero.NewOsFs() for real filesystem operations,
// or afero.NewMemMapFs() for testing.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// NewOsLoader creates a Loader using the real operating system filesystem.
func NewOsLoader() *Loader {
	return NewLoader(afero.NewOsFs())
}

// Load reads a template file, decodes it strictly and validates it.
// Unknown YAML keys are rejected so typos fail loudly instead of being
// silently dropped.
func (l *Loader) Load(path string) (*models.Template, []string, error) {
	file, err := l.fs.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open template: %w", err)
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("read template %s: %w", path, err)
	}
	return l.Parse(raw)
}

// Parse decodes and validates template YAML. On success it returns the
// template and any non-fatal warnings.
func (l *Loader) Parse(raw []byte) (*models.Template, []string, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var tmpl models.Template
	if err := dec.Decode(&tmpl); err != nil {
		return nil, nil, types.NewEngineError(types.ErrTemplateInvalid,
			fmt.Sprintf("parse template: %v", err), nil)
	}

	if err := models.ValidateStruct(&tmpl); err != nil {
		return nil, nil, types.NewEngineError(types.ErrTemplateInvalid,
			fmt.Sprintf("invalid template: %v", err), nil)
	}

	warnings, err := checkSemantics(&tmpl)
	if err != nil {
		return nil, nil, err
	}
	return &tmpl, warnings, nil
}

// checkSemantics enforces the cross-field rules strict decoding and tag
// validation cannot express.
func checkSemantics(tmpl *models.Template) ([]string, error) {
	var warnings []string

	if !tmpl.Config.Rounding.IsValid() {
		return nil, types.NewEngineError(types.ErrTemplateInvalid,
			fmt.Sprintf("unknown rounding mode %q", tmpl.Config.Rounding), nil)
	}

	seen := make(map[string]int, len(tmpl.Tasks))
	for i, task := range tmpl.Tasks {
		if task.ID == "" {
			continue
		}
		if prev, dup := seen[task.ID]; dup {
			return nil, types.NewEngineError(types.ErrTemplateInvalid,
				fmt.Sprintf("duplicate task id %q (tasks %d and %d)", task.ID, prev+1, i+1), nil)
		}
		seen[task.ID] = i
	}

	for i, task := range tmpl.Tasks {
		label := task.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		for _, dep := range task.DependsOn {
			if dep == task.ID && dep != "" {
				return nil, types.NewEngineError(types.ErrTemplateInvalid,
					fmt.Sprintf("task %q depends on itself", task.ID), nil)
			}
		}
		modes := 0
		if task.HasPercent() {
			modes++
		}
		if task.HasFixed() {
			modes++
		}
		if strings.TrimSpace(task.EstimationFormula) != "" {
			modes++
		}
		if modes > 1 {
			warnings = append(warnings,
				fmt.Sprintf("task %s declares multiple estimation modes; fixed takes priority", label))
		}
	}
	return warnings, nil
}
