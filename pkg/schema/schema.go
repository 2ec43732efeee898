package schema

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/activeform/field"
	"github.com/dmitrymomot/activeform/form"
	"github.com/dmitrymomot/activeform/pkg/rules"
)

// Definition is a declarative form document.
type Definition struct {
	ID     string      `yaml:"id"`
	Title  string      `yaml:"title"`
	Submit string      `yaml:"submit"`
	Form   FormConfig  `yaml:"form"`
	Fields []FieldSpec `yaml:"fields"`

	base *form.Config
}

// FormConfig overrides form defaults. Unset keys keep DefaultConfig values.
type FormConfig struct {
	Action                 string         `yaml:"action"`
	EnableClientValidation *bool          `yaml:"enableClientValidation"`
	EnableAjaxValidation   *bool          `yaml:"enableAjaxValidation"`
	ValidateOnSubmit       *bool          `yaml:"validateOnSubmit"`
	ValidateOnChange       *bool          `yaml:"validateOnChange"`
	ValidateOnBlur         *bool          `yaml:"validateOnBlur"`
	ValidateOnType         *bool          `yaml:"validateOnType"`
	ValidationDelay        *time.Duration `yaml:"validationDelay"`
	ScrollToError          *bool          `yaml:"scrollToError"`
	ScrollToErrorOffset    *int           `yaml:"scrollToErrorOffset"`
	ErrorCSSClass          string         `yaml:"errorCssClass"`
	SuccessCSSClass        string         `yaml:"successCssClass"`
}

// FieldSpec declares one field.
type FieldSpec struct {
	Attribute   string        `yaml:"attribute"`
	Type        string        `yaml:"type"`
	Label       string        `yaml:"label"`
	Hint        string        `yaml:"hint"`
	Placeholder string        `yaml:"placeholder"`
	Multiple    bool          `yaml:"multiple"`
	Choices     []ChoiceSpec  `yaml:"choices"`
	Initial     any           `yaml:"initial"`
	Overrides   OverridesSpec `yaml:"overrides"`
	Rules       []RuleSpec    `yaml:"rules"`
}

type ChoiceSpec struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// OverridesSpec mirrors form.FieldOverrides.
type OverridesSpec struct {
	EnableClientValidation *bool          `yaml:"enableClientValidation"`
	EnableAjaxValidation   *bool          `yaml:"enableAjaxValidation"`
	ValidateOnChange       *bool          `yaml:"validateOnChange"`
	ValidateOnBlur         *bool          `yaml:"validateOnBlur"`
	ValidateOnType         *bool          `yaml:"validateOnType"`
	ValidationDelay        *time.Duration `yaml:"validationDelay"`
}

// RuleSpec binds a named validator with its options.
type RuleSpec struct {
	Validator string         `yaml:"validator"`
	Options   map[string]any `yaml:"options"`
}

// Parse decodes and checks a definition. Unknown keys are rejected.
func Parse(r io.Reader) (Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Load parses the definition stored at path.
func Load(path string) (Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to open form definition %q: %w", path, err)
	}
	defer f.Close()

	def, err := Parse(f)
	if err != nil {
		return Definition{}, fmt.Errorf("form definition %q: %w", path, err)
	}
	return def, nil
}

// Validate checks the document structure. Validator and field type names
// are resolved by Build.
func (d Definition) Validate() error {
	if len(d.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidDefinition)
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for i, fs := range d.Fields {
		if fs.Attribute == "" {
			return fmt.Errorf("%w: field %d has no attribute", ErrInvalidDefinition, i)
		}
		if fs.Type == "" {
			return fmt.Errorf("%w: field %q has no type", ErrInvalidDefinition, fs.Attribute)
		}
		if _, ok := seen[fs.Attribute]; ok {
			return fmt.Errorf("%w: duplicate attribute %q", ErrInvalidDefinition, fs.Attribute)
		}
		seen[fs.Attribute] = struct{}{}
		for j, rs := range fs.Rules {
			if rs.Validator == "" {
				return fmt.Errorf("%w: field %q rule %d has no validator", ErrInvalidDefinition, fs.Attribute, j)
			}
		}
	}
	if d.Form.ValidationDelay != nil && *d.Form.ValidationDelay < 0 {
		return fmt.Errorf("%w: negative validation delay", ErrInvalidDefinition)
	}
	return nil
}

// WithBase returns a copy of d whose unset keys come from base instead of
// DefaultConfig.
func (d Definition) WithBase(base form.Config) Definition {
	d.base = &base
	return d
}

// Config returns the base config, DefaultConfig unless WithBase was used,
// with the document's overrides applied.
func (d Definition) Config() form.Config {
	cfg := form.DefaultConfig()
	if d.base != nil {
		cfg = *d.base
	}
	fc := d.Form
	if fc.Action != "" {
		cfg.Action = fc.Action
	}
	setBool(&cfg.EnableClientValidation, fc.EnableClientValidation)
	setBool(&cfg.EnableAjaxValidation, fc.EnableAjaxValidation)
	setBool(&cfg.ValidateOnSubmit, fc.ValidateOnSubmit)
	setBool(&cfg.ValidateOnChange, fc.ValidateOnChange)
	setBool(&cfg.ValidateOnBlur, fc.ValidateOnBlur)
	setBool(&cfg.ValidateOnType, fc.ValidateOnType)
	setBool(&cfg.ScrollToError, fc.ScrollToError)
	if fc.ValidationDelay != nil {
		cfg.ValidationDelay = *fc.ValidationDelay
	}
	if fc.ScrollToErrorOffset != nil {
		cfg.ScrollToErrorOffset = *fc.ScrollToErrorOffset
	}
	if fc.ErrorCSSClass != "" {
		cfg.ErrorCSSClass = fc.ErrorCSSClass
	}
	if fc.SuccessCSSClass != "" {
		cfg.SuccessCSSClass = fc.SuccessCSSClass
	}
	return cfg
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// FieldList converts the field specs.
func (d Definition) FieldList() []field.Field {
	out := make([]field.Field, 0, len(d.Fields))
	for _, fs := range d.Fields {
		fd := field.Field{
			Attribute:   fs.Attribute,
			Type:        fs.Type,
			Label:       fs.Label,
			Hint:        fs.Hint,
			Placeholder: fs.Placeholder,
			Multiple:    fs.Multiple,
			Initial:     fs.Initial,
			Overrides: form.FieldOverrides{
				EnableClientValidation: fs.Overrides.EnableClientValidation,
				EnableAjaxValidation:   fs.Overrides.EnableAjaxValidation,
				ValidateOnChange:       fs.Overrides.ValidateOnChange,
				ValidateOnBlur:         fs.Overrides.ValidateOnBlur,
				ValidateOnType:         fs.Overrides.ValidateOnType,
				ValidationDelay:        fs.Overrides.ValidationDelay,
			},
		}
		for _, c := range fs.Choices {
			fd.Choices = append(fd.Choices, field.Choice{Value: c.Value, Label: c.Label})
		}
		for _, rs := range fs.Rules {
			fd.Rules = append(fd.Rules, form.Rule{Validator: rs.Validator, Options: rules.Options(rs.Options)})
		}
		out = append(out, fd)
	}
	return out
}

// Build creates the form and mounts its fields. Unknown field types or
// validator names fail here. The document id, when set, becomes the form
// id unless opts override it.
func (d Definition) Build(reg *field.Registry, opts ...form.Option) (*form.Form, []field.Field, error) {
	if reg == nil {
		reg = field.Builtins()
	}
	if d.ID != "" {
		opts = append([]form.Option{form.WithID(d.ID)}, opts...)
	}

	f, err := form.New(d.Config(), opts...)
	if err != nil {
		return nil, nil, err
	}
	fields := d.FieldList()
	if err := field.Mount(f, reg, fields...); err != nil {
		return nil, nil, err
	}
	return f, fields, nil
}
