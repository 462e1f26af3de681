// Package artifact provides the opaque named-artifact sinks generated scripts
// are written to, and the manifest describing what was written.
package artifact
