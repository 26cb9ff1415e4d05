package common

// AuthorizationHeaderName is the gRPC metadata key (and lowercased HTTP
// header) carrying the session token.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token in the authorization value.
const BearerPrefix = "Bearer "
