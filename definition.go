package canvasform

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition describes a form in YAML:
//
//	padding: 1
//	origin: {x: 1, y: 1}
//	fields:
//	  - label: name
//	    validate: [required]
//	  - label: age
//	    width: 5
//	    validate: [required, numeric]
type Definition struct {
	Padding *int              `yaml:"padding,omitempty"`
	Origin  Point             `yaml:"origin"`
	Fields  []FieldDefinition `yaml:"fields"`
}

// Point is a surface coordinate.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// FieldDefinition describes one field of a Definition.
type FieldDefinition struct {
	Label    string   `yaml:"label"`
	Width    int      `yaml:"width,omitempty"`
	Height   int      `yaml:"height,omitempty"`
	Value    string   `yaml:"value,omitempty"`
	Validate []string `yaml:"validate,omitempty"`
}

var ErrNoFields = errors.New("canvasform: definition has no fields")

// DefaultDefinition is the name/year/age form.
func DefaultDefinition() Definition {
	return Definition{
		Origin: Point{X: 1, Y: 1},
		Fields: []FieldDefinition{
			{Label: "name", Validate: []string{"required"}},
			{Label: "year", Validate: []string{"numeric", "max=4"}},
			{Label: "age", Width: 5, Validate: []string{"numeric"}},
		},
	}
}

// LoadDefinition decodes and checks a YAML form definition.
func LoadDefinition(r io.Reader) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("decode form definition: %w", err)
	}
	if err := def.check(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// LoadDefinitionFile reads a YAML form definition from path.
func LoadDefinitionFile(path string) (Definition, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Definition{}, fmt.Errorf("open form definition: %w", err)
	}
	defer fh.Close()
	return LoadDefinition(fh)
}

func (d Definition) check() error {
	if len(d.Fields) == 0 {
		return ErrNoFields
	}
	if d.Padding != nil && *d.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %d", *d.Padding)
	}
	for i, fd := range d.Fields {
		if fd.Label == "" {
			return fmt.Errorf("field %d: missing label", i)
		}
		if fd.Width < 0 || fd.Height < 0 {
			return fmt.Errorf("field %q: negative size", fd.Label)
		}
		for _, rule := range fd.Validate {
			if _, err := ParseValidator(rule); err != nil {
				return fmt.Errorf("field %q: %w", fd.Label, err)
			}
		}
	}
	return nil
}

// Build creates a form on s with the defined fields. opts are applied
// after the definition's own padding.
func (d Definition) Build(s Surface, opts ...Option) (*Form, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if d.Padding != nil {
		opts = append([]Option{Padding(*d.Padding)}, opts...)
	}
	form, err := NewForm(s, opts...)
	if err != nil {
		return nil, err
	}
	for _, fd := range d.Fields {
		field := NewInputField(fd.Label, Size(fd.Width, fd.Height), Value(fd.Value))
		if err := form.AddField(field); err != nil {
			return nil, fmt.Errorf("add field %q: %w", fd.Label, err)
		}
	}
	return form, nil
}

// Validate runs each field's rules against form and returns the first
// failure per label. Fields the form does not have are skipped.
func (d Definition) Validate(form *Form) map[string]error {
	errs := make(map[string]error)
	for _, fd := range d.Fields {
		field, ok := form.Field(fd.Label)
		if !ok {
			continue
		}
		for _, rule := range fd.Validate {
			v, err := ParseValidator(rule)
			if err != nil {
				errs[fd.Label] = err
				break
			}
			if err := v(field.Text()); err != nil {
				errs[fd.Label] = err
				break
			}
		}
	}
	return errs
}
