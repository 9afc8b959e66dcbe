// Package serverutil holds the HTTP plumbing shared by murmur's servers: JSON
// helpers, error-returning handlers, access logging and rate limiting.
package serverutil
