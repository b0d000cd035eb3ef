// Package auth holds the authentication primitives of gatekeeper: password
// hashing, signed access/refresh tokens, the request principal, and the
// role-based guard evaluated before handlers run.
//
// Access and refresh tokens carry the same Payload but are signed with
// different secrets and lifetimes, so possession of one never allows forging
// the other. The refresh token's signature is only part of its trust: the
// directory's stored copy decides whether it is still live.
package auth
