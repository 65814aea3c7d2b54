// Package storage provides SQLite-backed repositories for the asset registry
// with embedded schema migrations and the seed administrator account.
package storage
