// Package postgres implements the store interfaces on PostgreSQL with the
// PostGIS extension. Distance filtering and computation happen in the
// database; this package builds the queries and maps rows and errors back
// into store types. Schema migrations live in the migrations subpackage.
package postgres
