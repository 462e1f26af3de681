// Package relational encodes records as MySQL-flavoured bulk insert scripts:
// one multi-row INSERT statement per artifact, framed by a comment header
// and, for the first artifact of a table, a DELETE directive. It also renders
// the pre-load and post-load directive blocks that wrap a bulk load.
package relational
