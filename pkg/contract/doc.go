// Package contract embeds the OpenAPI description of the service under load
// and validates request and response payloads against it.
package contract
