package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxBytes bounds how much input DecodeYAML reads.
const MaxBytes = 1_048_576

// ErrTooLarge is returned when the input exceeds MaxBytes.
var ErrTooLarge = errors.New("document exceeds 1MB")

// DecodeYAML decodes exactly one YAML document from r into dst with strict
// error handling. It rejects unknown keys, type mismatches, empty input and
// trailing documents.
func DecodeYAML(r io.Reader, dst any) error {
	// Read one byte past the limit so oversize input can be told apart.
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	if len(data) > MaxBytes {
		return ErrTooLarge
	}

	// Create a new decoder and disallow unknown keys.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err = dec.Decode(dst)
	if err != nil {
		var typeError *yaml.TypeError

		switch {
		// Handle an empty document.
		case errors.Is(err, io.EOF):
			return errors.New("document must not be empty")

		// Handle unknown keys and values of the wrong type. Both are reported
		// by yaml.v3 as a TypeError listing every offending line.
		case errors.As(err, &typeError):
			return fmt.Errorf("document contains invalid fields: %s", strings.Join(typeError.Errors, "; "))

		// Anything else is malformed YAML.
		default:
			return fmt.Errorf("document contains badly-formed YAML: %w", err)
		}
	}

	// Check if the input contains more than one YAML document.
	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("input must only contain a single YAML document")
	}

	return nil
}
