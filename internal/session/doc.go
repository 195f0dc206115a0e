// Package session implements the Session Registry component.
//
// The Session Registry:
//   - Issues a globally unique opaque token on login
//   - Resolves tokens back to usernames for every authenticated request
//   - Destroys tokens on logout or disconnect (idempotent)
//
// A username may hold any number of concurrent sessions; a token resolves to
// at most one username.
package session
