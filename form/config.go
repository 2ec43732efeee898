package form

import (
	"fmt"
	"time"
)

// DefaultValidationDelay is the debounce window of remote validation.
const DefaultValidationDelay = 500 * time.Millisecond

// Config is the form-level configuration. It is a plain value: every form
// holds its own copy and fields receive copies, so no state leaks between
// instances.
type Config struct {
	// Action makes the form post natively; Submit then does nothing.
	Action string

	EnableClientValidation bool
	EnableAjaxValidation   bool
	ValidateOnSubmit       bool
	ValidateOnChange       bool
	ValidateOnBlur         bool
	ValidateOnType         bool
	ValidationDelay        time.Duration

	ScrollToError       bool
	ScrollToErrorOffset int

	ErrorCSSClass   string
	SuccessCSSClass string
}

// DefaultConfig returns a fresh Config with the library defaults.
func DefaultConfig() Config {
	return Config{
		EnableClientValidation: true,
		EnableAjaxValidation:   false,
		ValidateOnSubmit:       true,
		ValidateOnChange:       true,
		ValidateOnBlur:         true,
		ValidateOnType:         false,
		ValidationDelay:        DefaultValidationDelay,
		ScrollToError:          true,
		ScrollToErrorOffset:    0,
		ErrorCSSClass:          "has-error",
		SuccessCSSClass:        "has-success",
	}
}

func (c Config) validate() error {
	if c.ValidationDelay < 0 {
		return fmt.Errorf("%w: negative validation delay %s", ErrInvalidConfig, c.ValidationDelay)
	}
	return nil
}

// ValidationOptions are the per-attribute validation timing flags after
// field overrides have been applied.
type ValidationOptions struct {
	EnableClientValidation bool
	EnableAjaxValidation   bool
	ValidateOnChange       bool
	ValidateOnBlur         bool
	ValidateOnType         bool
	ValidationDelay        time.Duration
}

// FieldOverrides holds field-level settings. Nil means inherit the form value.
type FieldOverrides struct {
	EnableClientValidation *bool
	EnableAjaxValidation   *bool
	ValidateOnChange       *bool
	ValidateOnBlur         *bool
	ValidateOnType         *bool
	ValidationDelay        *time.Duration
}

// Resolve applies field overrides on top of the form defaults.
func (c Config) Resolve(o FieldOverrides) ValidationOptions {
	pick := func(field *bool, form bool) bool {
		if field != nil {
			return *field
		}
		return form
	}

	delay := c.ValidationDelay
	if o.ValidationDelay != nil {
		delay = *o.ValidationDelay
	}

	return ValidationOptions{
		EnableClientValidation: pick(o.EnableClientValidation, c.EnableClientValidation),
		EnableAjaxValidation:   pick(o.EnableAjaxValidation, c.EnableAjaxValidation),
		ValidateOnChange:       pick(o.ValidateOnChange, c.ValidateOnChange),
		ValidateOnBlur:         pick(o.ValidateOnBlur, c.ValidateOnBlur),
		ValidateOnType:         pick(o.ValidateOnType, c.ValidateOnType),
		ValidationDelay:        delay,
	}
}

// Bool returns a pointer to v, for FieldOverrides literals.
func Bool(v bool) *bool { return &v }

// Delay returns a pointer to d, for FieldOverrides literals.
func Delay(d time.Duration) *time.Duration { return &d }

// EnvConfig maps form defaults onto environment variables. Load it with
// config.Load and convert with Config.
type EnvConfig struct {
	EnableClientValidation bool          `env:"ACTIVEFORM_CLIENT_VALIDATION" envDefault:"true"`
	EnableAjaxValidation   bool          `env:"ACTIVEFORM_AJAX_VALIDATION" envDefault:"false"`
	ValidateOnSubmit       bool          `env:"ACTIVEFORM_VALIDATE_ON_SUBMIT" envDefault:"true"`
	ValidateOnChange       bool          `env:"ACTIVEFORM_VALIDATE_ON_CHANGE" envDefault:"true"`
	ValidateOnBlur         bool          `env:"ACTIVEFORM_VALIDATE_ON_BLUR" envDefault:"true"`
	ValidateOnType         bool          `env:"ACTIVEFORM_VALIDATE_ON_TYPE" envDefault:"false"`
	ValidationDelay        time.Duration `env:"ACTIVEFORM_VALIDATION_DELAY" envDefault:"500ms"`
	ScrollToError          bool          `env:"ACTIVEFORM_SCROLL_TO_ERROR" envDefault:"true"`
	ScrollToErrorOffset    int           `env:"ACTIVEFORM_SCROLL_TO_ERROR_OFFSET" envDefault:"0"`
}

// Config converts the environment values into a form Config.
func (e EnvConfig) Config() Config {
	c := DefaultConfig()
	c.EnableClientValidation = e.EnableClientValidation
	c.EnableAjaxValidation = e.EnableAjaxValidation
	c.ValidateOnSubmit = e.ValidateOnSubmit
	c.ValidateOnChange = e.ValidateOnChange
	c.ValidateOnBlur = e.ValidateOnBlur
	c.ValidateOnType = e.ValidateOnType
	c.ValidationDelay = e.ValidationDelay
	c.ScrollToError = e.ScrollToError
	c.ScrollToErrorOffset = e.ScrollToErrorOffset
	return c
}
