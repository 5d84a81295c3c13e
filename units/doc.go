// Package units provides the unit grammar and the conversion engine.
//
// # Reading Guide
//
// Start with these files:
//   - unit.go: Unit and Prefix records and the Catalog interfaces the engine reads
//   - term.go, derived.go, parse.go: UnitTerm, DerivedUnit and the symbol grammar
//   - converter.go: the per-dimension conversion graph and its path search
//   - converters.go, expand.go: compound-unit conversion, Expand and Merge
//
// # Architecture
//
// Dimension codes live in units/dimension and error kinds in units/uerr. The
// unit, prefix and conversion tables are supplied through the Catalog interface;
// units/registry is the bundled implementation, loaded from YAML or msgpack.
//
// A Converters value is owned by the host and hands out one Converter per
// dimension. Each Converter reads the conversions registered for its dimension on
// first use and memoizes every resolved pair. After the catalog changes the host
// calls Converters.Clear.
//
// # Errors
//
// Malformed symbols fail with ErrFormat, invalid input with ErrDomain. A missing
// conversion path is reported as ok == false by the query methods and as ErrNoPath
// by Convert.
package units
