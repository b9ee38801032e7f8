package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/edgesim/internal/dynamo"
)

const (
	DefaultDt        = 0.002
	DefaultTStart    = 0.0
	DefaultTEnd      = 50.0
	DefaultOutDir    = "result"
	DefaultPlot      = "edge.png"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// DefaultXCandidates and DefaultYCandidates straddle the edge line y = 1
// on both sides of the edge state x = 10.
var (
	DefaultXCandidates = []float64{2, 6, 10, 14, 18}
	DefaultYCandidates = []float64{0.5, 0.99, 1.01, 1.5}
)

type Config struct {
	XCandidates []float64 `yaml:"ic_x" validate:"min=1,dive,finite"`
	YCandidates []float64 `yaml:"ic_y" validate:"min=1,dive,finite"`
	TStart      float64   `yaml:"t_start" validate:"finite"`
	TEnd        float64   `yaml:"t_end" validate:"finite,gtefield=TStart"`
	Dt          float64   `yaml:"dt" validate:"finite,gt=0"`
	Workers     int       `yaml:"workers" validate:"gte=0"`
	OutDir      string    `yaml:"out_dir" validate:"required"`
	Plot        string    `yaml:"plot" validate:"required"`
	LogLevel    string    `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat   string    `yaml:"log_format" validate:"omitempty,oneof=console json"`

	// Params overrides model coefficients by name.
	Params map[string]float64 `yaml:"params,omitempty" validate:"omitempty,dive,finite"`
}

func DefaultConfig() *Config {
	return &Config{
		XCandidates: append([]float64(nil), DefaultXCandidates...),
		YCandidates: append([]float64(nil), DefaultYCandidates...),
		TStart:      DefaultTStart,
		TEnd:        DefaultTEnd,
		Dt:          DefaultDt,
		OutDir:      DefaultOutDir,
		Plot:        DefaultPlot,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration before any integration or output.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// SimConfig returns the integration settings shared by every grid point.
func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:   c.Dt,
		Span: dynamo.Span{Start: c.TStart, End: c.TEnd},
	}
}

// ApplyParams sets every entry of Params on m.
func (c *Config) ApplyParams(m dynamo.Configurable) error {
	names := make([]string, 0, len(c.Params))
	for name := range c.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := m.SetParam(name, c.Params[name]); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// GridSize is the number of initial conditions in the sweep.
func (c *Config) GridSize() int {
	return len(c.XCandidates) * len(c.YCandidates)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "finite":
		return fmt.Sprintf("%s must be finite, got %v", fe.Namespace(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be positive, got %v", fe.Field(), fe.Value())
	case "gtefield":
		return fmt.Sprintf("%s must not be before t_start, got %v", fe.Field(), fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
