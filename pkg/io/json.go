package io

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/hex"
	"github.com/matzehuels/hextile/pkg/layout"
)

// Document is the on-disk form of a pattern.
type Document struct {
	ID      string          `json:"id"`
	Params  layout.Params   `json:"params"`
	Pattern *layout.Pattern `json:"pattern"`
}

// WriteJSON encodes doc as indented JSON to w.
func WriteJSON(doc *Document, w io.Writer) error {
	enc := sonic.ConfigStd.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}

// ReadJSON decodes a pattern document from r.
//
// Malformed documents return an [errors.ErrCodeInvalidFormat] error. ReadJSON
// does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := sonic.ConfigStd.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode pattern")
	}
	if err := check(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ImportJSON reads a pattern document from the file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Marshal returns the compact JSON form of doc.
func Marshal(doc *Document) ([]byte, error) {
	return sonic.ConfigStd.Marshal(doc)
}

// Unmarshal decodes and checks a compact JSON document.
func Unmarshal(data []byte, doc *Document) error {
	if err := sonic.ConfigStd.Unmarshal(data, doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode pattern")
	}
	return check(doc)
}

func check(doc *Document) error {
	p := doc.Pattern
	if p == nil {
		return errors.New(errors.ErrCodeInvalidFormat, "document has no pattern")
	}
	if len(p.Hexes) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "pattern has no hexes")
	}
	if len(p.Hexes) != len(p.Colors) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"%d hexes but %d colors", len(p.Hexes), len(p.Colors))
	}
	if !(p.Radius > 0) {
		return errors.New(errors.ErrCodeInvalidFormat, "radius %g must be positive", p.Radius)
	}
	seen := make(map[hex.Axial]bool, len(p.Hexes))
	for i, h := range p.Hexes {
		if seen[h] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate hex %v", h)
		}
		seen[h] = true
		if err := errors.ValidateHexColor(p.Colors[i]); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "hex %v", h)
		}
	}
	if p.BaseCount < 0 || p.BaseCount > len(p.Hexes) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"base_count %d outside [0, %d]", p.BaseCount, len(p.Hexes))
	}
	return nil
}
