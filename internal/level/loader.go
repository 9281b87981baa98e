package level

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"github.com/samdwyer/tilenav/internal/telemetry"
)

// Load reads and unmarshals a YAML file from the embedded filesystem.
func Load[T any](filename string) (T, error) {
	var result T

	content, err := levelFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse YAML from %s: %w", filename, err)
	}

	return result, nil
}

// Parse decodes and validates a level document.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("failed to parse level YAML: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// LoadFile reads a level from disk.
func LoadFile(ctx context.Context, path string) (*Level, error) {
	_, span := telemetry.Tracer("level").Start(ctx, "level.load_file")
	defer span.End()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level %s: %w", path, err)
	}
	lvl, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	span.SetAttributes(
		attribute.String("level.id", lvl.ID),
		attribute.String("level.path", path),
		attribute.Int("level.width", lvl.Width()),
		attribute.Int("level.height", lvl.Height()),
	)
	return lvl, nil
}

// MustLoad reads an embedded level, panicking on error.
// Use this for built-in levels that must be present.
func MustLoad(filename string) *Level {
	lvl, err := Load[Level](filename)
	if err != nil {
		panic(err)
	}
	if err := lvl.Validate(); err != nil {
		panic(fmt.Errorf("%s: %w", filename, err))
	}
	return &lvl
}
