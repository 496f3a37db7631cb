package course

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the catalog document format written by EncodeYAML.
const FormatVersion = "v1.0.0"

// Document is the on-disk YAML envelope of a course.
type Document struct {
	Format string `yaml:"format"`
	Course Course `yaml:"course"`
}

// CheckFormatVersion accepts any valid semantic version sharing the major
// version of FormatVersion.
func CheckFormatVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("catalog format %q is not a semantic version", v)
	}
	if semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("catalog format %s is not supported (want %s.x.x)", v, semver.Major(FormatVersion))
	}
	return nil
}

// DecodeYAML reads a catalog document, checks its format version and
// validates the course.
func DecodeYAML(r io.Reader) (*Course, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := CheckFormatVersion(doc.Format); err != nil {
		return nil, err
	}
	if err := Validate(&doc.Course); err != nil {
		return nil, err
	}
	return &doc.Course, nil
}

// EncodeYAML writes c as a catalog document.
func EncodeYAML(w io.Writer, c *Course) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document{Format: FormatVersion, Course: *c}); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

// LoadFile loads a course from a .yaml/.yml catalog document, a .json
// course object or an .xlsx workbook.
func LoadFile(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(bytes.NewReader(data))
	case ".json":
		return DecodeJSON(data)
	case ".xlsx":
		return ImportXLSX(bytes.NewReader(data), XLSXOptions{})
	default:
		return nil, fmt.Errorf("unsupported catalog file %q", filepath.Base(path))
	}
}
