package config

import (
	"errors"
	"reflect"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
	LogLevelFatal   = "fatal"
)

// Pipelines is the full bootstrap configuration, loaded once at process
// start and passed into the orchestrator by value. No component reads
// ambient state directly.
type Pipelines struct {
	Log              LogConfig `mapstructure:"log"`
	Dir              string    `mapstructure:"dir" default:"./pipelines"` // destination for fetched pipeline files
	Reset            bool      `mapstructure:"reset"`                     // wipe the destination before fetching
	URLs             string    `mapstructure:"urls"`                      // ';'-separated source locators
	RequirementsPath string    `mapstructure:"requirements_path"`         // optional aggregate pip manifest
	VerboseInstall   bool      `mapstructure:"verbose_install"`           // stream pip output
	Serve            Serve     `mapstructure:"serve"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" default:"info"` // log level - debug, info, warning, error, fatal
	Format string `mapstructure:"format"`               // format strategy - plain, json
}

// Serve describes the service process the bootstrap hands off to
type Serve struct {
	Host    string `mapstructure:"host" default:"0.0.0.0"`
	Port    int    `mapstructure:"port" default:"9099"`
	Command string `mapstructure:"command" default:"uvicorn main:app"`
}

// Validate reports every configuration problem at once
func (p *Pipelines) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Dir, validation.Required),
		nestedFields(&p.Log,
			validation.Field(&p.Log.Level, validation.In(
				LogLevelDebug,
				LogLevelInfo,
				LogLevelWarning,
				LogLevelError,
				LogLevelFatal,
			)),
		),
		nestedFields(&p.Serve,
			validation.Field(&p.Serve.Port, validation.Required, validation.Min(1), validation.Max(65535)),
			validation.Field(&p.Serve.Command, validation.Required, validation.By(validateNotBlank)),
		),
	)
}

func validateNotBlank(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("can't convert value to string")
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
}

// ozzo-validation helper for nested validation struct
// https://github.com/go-ozzo/ozzo-validation/issues/136
func nestedFields(target interface{}, fieldRules ...*validation.FieldRules) *validation.FieldRules {
	return validation.Field(target, validation.By(func(value interface{}) error {
		valueV := reflect.Indirect(reflect.ValueOf(value))
		if valueV.CanAddr() {
			addr := valueV.Addr().Interface()
			return validation.ValidateStruct(addr, fieldRules...)
		}
		return validation.ValidateStruct(target, fieldRules...)
	}))
}
