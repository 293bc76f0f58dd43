// Package model defines the domain types served by the Forbin API.
//
// Conventions:
//   - IDs: strings; the empty ID marks an object the server has not created yet
//   - Timestamps: *time.Time normalized to UTC, nil when the server sent none
//   - Nullable numbers and flags: pointers, nil when absent
//   - Tabular data: Table, an ordered slice of rows keyed by column name
package model
