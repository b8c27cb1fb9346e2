// Package domain defines the core business entities for MapScraperPro.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Lead: One discovered business with canonical and derived fields
//   - ColumnMapping: How a model table column maps to a lead field
//   - SearchParameters: The frozen query a session replays
//   - RetrievalRequest: One upstream call, including exclusions
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
