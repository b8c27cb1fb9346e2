// Package memory provides in-memory implementations of driven ports.
//
// LeadStore is the default session store. ConfigStore stands in for the
// TOML file store when no config directory is usable.
package memory
