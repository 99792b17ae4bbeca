package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stagger/pkg/errors"
)

// Supported file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// ReadJSON decodes a JSON request from r.
// Unknown fields are rejected so that typos in constraint names surface early.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (Request, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var req Request
	if err := dec.Decode(&req); err != nil {
		return Request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json request")
	}
	return req, nil
}

// ReadTOML decodes a TOML request from r.
// Undecoded keys are rejected like unknown JSON fields.
func ReadTOML(r io.Reader) (Request, error) {
	var req Request
	md, err := toml.NewDecoder(r).Decode(&req)
	if err != nil {
		return Request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml request")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Request{}, errors.New(errors.ErrCodeInvalidInput, "unknown field %q in toml request", undecoded[0].String())
	}
	return req, nil
}

// Read decodes a request in the given format.
func Read(r io.Reader, format string) (Request, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return Request{}, errors.ValidateFormat(format, []string{FormatJSON, FormatTOML})
}

// FormatFromPath returns the request format implied by the file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := errors.ValidateFormat(ext, []string{FormatJSON, FormatTOML}); err != nil {
		return "", err
	}
	return ext, nil
}

// ImportFile reads the request file at path, choosing the decoder from the
// file extension. Errors are wrapped with the path for context.
func ImportFile(path string) (Request, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Request{}, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return Request{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Request{}, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return Request{}, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	return Read(f, format)
}
