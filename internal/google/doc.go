// Package google obtains OAuth2 credentials for the Gmail API.
//
// A Provider loads the persisted token, refreshes it when it has expired and
// carries a refresh token, and otherwise runs an interactive authorization
// through an Authorizer. Tokens are stored as JSON in a private file.
//
// A failed refresh is reported as an AuthError. The provider never falls back
// to interactive authorization in that case, so a revoked credential is
// surfaced instead of silently replaced.
package google
