// Package client talks to the gatekeeper AuthService over gRPC.
//
// GRPCClient keeps the current token pair in memory, attaches the access
// token as a Bearer authorization header on every call, and when the server
// answers Unauthenticated with "token expired" it exchanges the refresh token
// for a new pair and retries the call once.
//
// gRPC status codes are mapped to the sentinel errors in errors.go so callers
// can match them with errors.Is.
package client
