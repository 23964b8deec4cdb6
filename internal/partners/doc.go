// Package partners holds the trading partner rule table and the ship-from
// disambiguator.
//
// A Table is built once from an ordered list of profiles (the built-in
// Defaults or a partner file) and is read-only afterwards. Classification is
// a single Lookup by interchange sender id; there is no per-partner trial.
package partners
