// Package store defines interfaces for data persistence operations and the
// spatial capabilities of the facility directory. These interfaces keep the
// search orchestration independent of the concrete PostGIS adapter and make
// it possible to substitute test doubles.
package store
