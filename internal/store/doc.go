// Package store persists playlists between CLI invocations.
//
// Playlists live in a SQLite database under the configured state directory
// (modernc.org/sqlite, WAL journal). Each playlist row keeps its generation
// settings; its entries are stored in order in a child table. Schema changes
// ship as embedded migrations applied on Open and tracked in
// schema_migrations.
package store
