// Package dialect defines the contract output formats implement and a named
// registry to look them up. Encoders receive dialect-neutral records from
// package record and only decide layout.
package dialect
