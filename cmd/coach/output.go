package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/coach/internal/training"
)

func invalidArgs(format string, args ...any) error {
	return training.InvalidArguments(format, args...)
}

// render writes v as indented JSON, or as YAML with the same field names.
func render(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if format != "yaml" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	// Round-trip through JSON so YAML keys follow the json tags.
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}

// writeError prints {"error": ...} so callers parsing stdout always get JSON.
func writeError(w io.Writer, err error) {
	body := map[string]string{"error": err.Error()}
	var ude *training.UnknownDimensionError
	if errors.As(err, &ude) {
		body["dimension"] = ude.Name
	}
	data, _ := json.MarshalIndent(body, "", "  ")
	fmt.Fprintln(w, string(data))
}
