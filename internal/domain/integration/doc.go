// Package integration defines the port through which the catalog talks to
// the store platform. Adapters live under infrastructure.
package integration
