package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/review-bot/internal/core"
)

var (
	ErrPersonasNotFound = errors.New("personas file not found")
	ErrPersonasParsing  = errors.New("personas parsing failed")
)

type personasFile struct {
	Personas []core.Persona `yaml:"personas"`
}

// LoadPersonas reads the review committee from a YAML file. An empty path
// returns the built-in committee. The order in the file is the order in which
// personas are consulted.
func LoadPersonas(path string) ([]core.Persona, error) {
	if path == "" {
		return core.DefaultPersonas(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPersonasNotFound, path)
		}
		return nil, fmt.Errorf("failed to read personas file: %w", err)
	}

	var file personasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersonasParsing, err)
	}
	if len(file.Personas) == 0 {
		return nil, fmt.Errorf("%w: no personas defined in %s", ErrPersonasParsing, path)
	}
	for i, p := range file.Personas {
		if p.Name == "" || p.Instructions == "" {
			return nil, fmt.Errorf("%w: persona #%d needs a name and instructions", ErrPersonasParsing, i+1)
		}
	}
	return file.Personas, nil
}
