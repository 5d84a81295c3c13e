package units

import "github.com/inference-sim/unitconv/units/uerr"

// Error kinds, re-exported for callers that only import units.
var (
	ErrFormat = uerr.ErrFormat
	ErrDomain = uerr.ErrDomain
	ErrNoPath = uerr.ErrNoPath
)
