// Package common contains shared constants and sentinel errors used across
// gatekeeper components.
package common

// AuthorizationHeaderName is the gRPC metadata key carrying the bearer
// access token. gRPC lower-cases all metadata keys.
const AuthorizationHeaderName = "authorization"

// BearerScheme prefixes the access token inside the authorization header.
const BearerScheme = "Bearer "
