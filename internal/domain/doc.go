// Package domain contains the core business entities and value objects of the
// court service: facilities, courts and geographic points. It is independent
// of any storage or delivery mechanism.
package domain
