package registry

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

//go:embed data/units.yaml
var defaultTables []byte

// Default returns a new registry over the embedded default tables. Each call
// returns an independent copy, so callers may mutate it freely.
func Default() (*Registry, error) {
	r, err := Load(bytes.NewReader(defaultTables))
	if err != nil {
		return nil, fmt.Errorf("loading embedded tables: %w", err)
	}
	return r, nil
}

// Load reads a YAML tables document. Uses strict parsing: unrecognized keys
// (typos) are rejected.
func Load(rd io.Reader) (*Registry, error) {
	var t Tables
	decoder := yaml.NewDecoder(rd)
	decoder.KnownFields(true)
	if err := decoder.Decode(&t); err != nil {
		return nil, fmt.Errorf("parsing tables YAML: %w", err)
	}
	return FromTables(t)
}

// LoadMsgpack reads a msgpack-encoded tables document.
func LoadMsgpack(rd io.Reader) (*Registry, error) {
	var t Tables
	decoder := msgpack.NewDecoder(rd)
	decoder.DisallowUnknownFields(true)
	if err := decoder.Decode(&t); err != nil {
		return nil, fmt.Errorf("parsing tables msgpack: %w", err)
	}
	return FromTables(t)
}

// LoadFile reads a tables file, choosing the format from the extension:
// .yaml/.yml or .msgpack/.mpk.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading tables file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return Load(f)
	case ".msgpack", ".mpk":
		return LoadMsgpack(f)
	default:
		return nil, fmt.Errorf("tables file %s: unsupported extension %q; valid: .yaml, .yml, .msgpack, .mpk", path, ext)
	}
}

// FromTables builds and validates a registry from decoded tables.
func FromTables(t Tables) (*Registry, error) {
	r := New()
	r.version = t.Version
	for i, p := range t.Prefixes {
		if err := r.AddPrefix(p); err != nil {
			return nil, fmt.Errorf("prefixes[%d]: %w", i, err)
		}
	}
	for i, u := range t.Units {
		if _, err := r.AddUnit(u); err != nil {
			return nil, fmt.Errorf("units[%d]: %w", i, err)
		}
	}
	for i, c := range t.Conversions {
		if err := r.AddConversion(c); err != nil {
			return nil, fmt.Errorf("conversions[%d]: %w", i, err)
		}
	}
	for i, q := range t.Quantities {
		if err := r.AddQuantity(q); err != nil {
			return nil, fmt.Errorf("quantities[%d]: %w", i, err)
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	logrus.Debugf("registry: loaded %d prefixes, %d units, %d conversions, %d quantities",
		len(r.prefixes), len(r.units), len(r.edgeOrder), len(r.quantityOrder))
	return r, nil
}

// Tables returns the registry contents in registration order.
func (r *Registry) Tables() Tables {
	t := Tables{Version: r.version}
	for _, p := range r.prefixes {
		t.Prefixes = append(t.Prefixes, PrefixSpec{
			Name:     p.Name,
			Symbol:   p.Symbol,
			Unicode:  p.Unicode,
			Aliases:  append([]string(nil), p.Aliases...),
			Base:     p.Base,
			Exponent: p.Exponent,
			Group:    p.Group.String(),
		})
	}
	for _, u := range r.units {
		spec := UnitSpec{
			Name:      u.Name,
			Symbol:    u.Symbol,
			Unicode:   u.Unicode,
			Alternate: u.Alternate,
			Dimension: u.Dimension,
		}
		if u.Prefixes != 0 {
			spec.Prefixes = u.Prefixes.String()
		}
		for _, s := range u.Systems {
			spec.Systems = append(spec.Systems, string(s))
		}
		if u.Expansion != nil {
			spec.Expansion = &ExpansionSpec{Symbol: u.Expansion.Symbol}
			if u.Expansion.Multiplier != 1 {
				spec.Expansion.Multiplier = u.Expansion.Multiplier
			}
		}
		t.Units = append(t.Units, spec)
	}
	t.Conversions = append(t.Conversions, r.edgeOrder...)
	t.Quantities = append(t.Quantities, r.quantityOrder...)
	return t
}

// WriteYAML writes the registry as a YAML tables document.
func (r *Registry) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(r.Tables()); err != nil {
		return fmt.Errorf("encoding tables YAML: %w", err)
	}
	return encoder.Close()
}

// WriteMsgpack writes the registry as a msgpack tables document.
func (r *Registry) WriteMsgpack(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(r.Tables()); err != nil {
		return fmt.Errorf("encoding tables msgpack: %w", err)
	}
	return nil
}
