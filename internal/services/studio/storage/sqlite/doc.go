// Package sqlite provides the SQLite-backed studio storage implementation.
//
// The store holds a single connection. Multi-record writes (tenant
// provisioning, template upserts, publications) run inside one transaction
// and only touch the transaction handle until commit.
package sqlite
