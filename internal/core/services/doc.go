// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The lead pipeline lives here: Parser turns model text into leads,
// Dedup filters them against what a session already holds, SearchSession
// runs the start/load-more/clear lifecycle, and EncodeCSV renders results.
package services
