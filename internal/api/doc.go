// Package api handles incoming HTTP requests for the facility directory:
// request decoding and validation, mapping of service errors to status
// codes, and response formatting. Handlers depend on the service layer
// through interfaces and never touch the store directly.
package api
