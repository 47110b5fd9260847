// Package utils contains small helper functions used across the project.
//
// These are usually generic helpers that don't belong to a specific domain.
package utils

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrintJSON writes v to w as tab-indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("marshalling JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
