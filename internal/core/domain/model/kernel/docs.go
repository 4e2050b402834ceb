// Package kernel provides the shared domain primitives of the marketplace core.
//
// The package includes:
//   - UUID: identifier value object with validation and comparison
//   - GeoPoint: validated latitude/longitude with haversine distance
//   - Money: integer-cent amounts with rounding helpers
//
// All primitives are immutable and safe for concurrent use.
package kernel
