// Package core holds the HTTP response primitives shared by handlers: the
// HTTPError type with its common instances and JSON rendering of data and
// errors.
package core
