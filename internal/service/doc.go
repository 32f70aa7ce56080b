// Package service holds the application use cases of the court directory:
// the nearby search orchestrator, facility management and court management.
//
// Services depend only on the store interfaces. Store records are converted
// into domain values here, with stored locations decoded through the geo
// codec. A location that cannot be decoded degrades the single record to an
// unresolved location instead of failing the request.
//
// The nearby search tries an ordered list of strategies of decreasing
// precision and returns the first success:
//
//  1. spatial_query: radius-bounded spatial predicate with computed distance
//  2. named_function: the database's nearby search function
//  3. full_scan: every facility, without radius or distance
//
// A failed strategy is logged and the next one is attempted. When all of them
// fail the caller receives ErrUpstreamUnavailable. A cancelled context stops
// the chain with ErrCancelled.
package service
