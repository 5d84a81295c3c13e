package registry

// Tables is the serialized form of a registry, as found in units.yaml.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Tables struct {
	Version     string           `yaml:"version" msgpack:"version"`
	Prefixes    []PrefixSpec     `yaml:"prefixes" msgpack:"prefixes"`
	Units       []UnitSpec       `yaml:"units" msgpack:"units"`
	Conversions []ConversionSpec `yaml:"conversions" msgpack:"conversions"`
	Quantities  []QuantitySpec   `yaml:"quantities" msgpack:"quantities"`
}

// PrefixSpec describes one prefix.
type PrefixSpec struct {
	Name     string   `yaml:"name" msgpack:"name"`
	Symbol   string   `yaml:"symbol" msgpack:"symbol"`
	Unicode  string   `yaml:"unicode,omitempty" msgpack:"unicode,omitempty"`
	Aliases  []string `yaml:"aliases,omitempty" msgpack:"aliases,omitempty"`
	Base     int      `yaml:"base" msgpack:"base"`
	Exponent int      `yaml:"exponent" msgpack:"exponent"`
	Group    string   `yaml:"group" msgpack:"group"`
}

// UnitSpec describes one unit. Prefixes names the accepted prefix group
// ("metric", "large", "binary", ...); empty means no prefixes.
type UnitSpec struct {
	Name      string         `yaml:"name" msgpack:"name"`
	Symbol    string         `yaml:"symbol" msgpack:"symbol"`
	Unicode   string         `yaml:"unicode,omitempty" msgpack:"unicode,omitempty"`
	Alternate string         `yaml:"alternate,omitempty" msgpack:"alternate,omitempty"`
	Dimension string         `yaml:"dimension" msgpack:"dimension"`
	Prefixes  string         `yaml:"prefixes,omitempty" msgpack:"prefixes,omitempty"`
	Systems   []string       `yaml:"systems,omitempty" msgpack:"systems,omitempty"`
	Expansion *ExpansionSpec `yaml:"expansion,omitempty" msgpack:"expansion,omitempty"`
}

// ExpansionSpec gives the base form of a named derived unit: 1 unit = Multiplier × Symbol.
// A zero Multiplier means 1.
type ExpansionSpec struct {
	Symbol     string  `yaml:"symbol" msgpack:"symbol"`
	Multiplier float64 `yaml:"multiplier,omitempty" msgpack:"multiplier,omitempty"`
}

// ConversionSpec registers 1 From = Factor To, between unprefixed units.
type ConversionSpec struct {
	From   string  `yaml:"from" msgpack:"from"`
	To     string  `yaml:"to" msgpack:"to"`
	Factor float64 `yaml:"factor" msgpack:"factor"`
	Error  float64 `yaml:"error,omitempty" msgpack:"error,omitempty"` // relative error, 0 = exact
}

// QuantitySpec names the quantity type of a dimension.
type QuantitySpec struct {
	Name      string `yaml:"name" msgpack:"name"`
	Dimension string `yaml:"dimension" msgpack:"dimension"`
}
