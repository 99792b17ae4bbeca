package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// WriteJSON encodes req as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(w io.Writer, req Request) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(req); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes req as TOML and writes it to w.
func WriteTOML(w io.Writer, req Request) error {
	if err := toml.NewEncoder(w).Encode(req); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes req to path in the format implied by its extension.
func ExportFile(req Request, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if format == FormatTOML {
		return WriteTOML(f, req)
	}
	return WriteJSON(f, req)
}
