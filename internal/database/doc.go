// Package database opens the PostgreSQL pool that backs the snapshot archive.
//
// Connection settings come from the archive.database section of the forbin
// config and are rendered as a postgres:// URL tagged with ApplicationName.
package database
