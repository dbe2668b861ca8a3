package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/aryankumar/probectl/internal/util"
)

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads, expands and validates a plan file
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a plan document
// ${VAR} references are replaced with environment values first; unknown keys are rejected.
func Parse(data []byte) (*Plan, error) {
	expanded := ExpandEnv(data)

	decoder := yaml.NewDecoder(bytes.NewReader(expanded))
	decoder.KnownFields(true)

	var p Plan
	if err := decoder.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: plan is empty", util.ErrInvalidPlan)
		}
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidPlan, err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ExpandEnv replaces ${VAR} references with environment values
// Unset variables expand to the empty string. A bare $ is left alone.
func ExpandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		name := envRef.FindSubmatch(ref)[1]
		return []byte(os.Getenv(string(name)))
	})
}
