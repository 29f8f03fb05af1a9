package typeregistry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidationError aggregates class definition problems found while loading.
type ValidationError struct {
	Source string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "typeregistry: invalid class definitions"
	}
	var b strings.Builder
	b.WriteString("typeregistry: class definitions invalid")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	b.WriteByte(':')
	for _, issue := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(issue)
	}
	return b.String()
}

type classesDisk struct {
	Classes []classDisk `yaml:"classes"`
}

type classDisk struct {
	Name       string   `yaml:"name"`
	Base       string   `yaml:"base,omitempty"`
	Attributes []string `yaml:"attributes"`
}

// LoadFile reads class definitions from a YAML file into r.
func (r *Registry) LoadFile(path string) error {
	if path == "" {
		return fmt.Errorf("typeregistry: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("typeregistry: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := r.load(file, abs); err != nil {
		return err
	}
	return nil
}

// LoadYAML reads class definitions of the form
//
//	classes:
//	  - name: Point
//	    attributes: [x, y]
//	  - name: Point3
//	    base: Point
//	    attributes: [z]
//
// A class with a base inherits the base's attributes as its leading slots.
// Bases must be defined earlier in the document or already registered.
func (r *Registry) LoadYAML(src io.Reader) error {
	return r.load(src, "")
}

func (r *Registry) load(src io.Reader, source string) error {
	var raw classesDisk
	decoder := yaml.NewDecoder(src)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if source != "" {
			return fmt.Errorf("typeregistry: parse %s: %w", source, err)
		}
		return fmt.Errorf("typeregistry: parse: %w", err)
	}

	var issues []string
	pending := make(map[string]*ClassType, len(raw.Classes))
	order := make([]*ClassType, 0, len(raw.Classes))
	for idx, def := range raw.Classes {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			issues = append(issues, fmt.Sprintf("classes[%d]: missing name", idx))
			continue
		}
		if _, dup := pending[name]; dup {
			issues = append(issues, fmt.Sprintf("class %s: defined twice", name))
			continue
		}
		if _, exists := r.Lookup(name); exists {
			issues = append(issues, fmt.Sprintf("class %s: already registered", name))
			continue
		}
		var attrs []string
		if def.Base != "" {
			base, ok := pending[def.Base]
			if !ok {
				base, ok = r.Lookup(def.Base)
			}
			if !ok {
				issues = append(issues, fmt.Sprintf("class %s: unknown base %s", name, def.Base))
				continue
			}
			attrs = append(attrs, base.Attributes()...)
		}
		attrs = append(attrs, def.Attributes...)
		ct, err := NewClassType(name, attrs...)
		if err != nil {
			issues = append(issues, err.Error())
			continue
		}
		pending[name] = ct
		order = append(order, ct)
	}
	if len(issues) > 0 {
		return &ValidationError{Source: source, Issues: issues}
	}
	for _, ct := range order {
		if err := r.Register(ct); err != nil {
			return err
		}
	}
	return nil
}

// DumpYAML renders the registry's classes in the LoadYAML format, flattening
// inherited attributes.
func (r *Registry) DumpYAML() ([]byte, error) {
	var out classesDisk
	for _, name := range r.Names() {
		ct, _ := r.Lookup(name)
		out.Classes = append(out.Classes, classDisk{Name: name, Attributes: ct.Attributes()})
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("typeregistry: marshal: %w", err)
	}
	return data, nil
}
