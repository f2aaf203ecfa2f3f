// Package netutil picks a free localhost TCP port for the Java service
// runtime when the configuration leaves the port to the host.
package netutil
