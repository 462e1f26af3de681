// Package keyvalue encodes records as Redis command scripts: one HSET line
// per record under the key "<kind>:<id>". Every field is kept, including
// denormalized copies and nested lists, which are stored as a quoted JSON
// string.
package keyvalue
