// Package report computes the two reference reports served by the service
// under test, highest spenders and best sellers, directly from a generated
// dataset.
package report
