// Package client contains the gRPC client for the gophid auth service.
//
// GRPCClient invokes gophid.auth.v1.AuthService with google.protobuf.Struct
// messages, attaches the session token as "authorization: Bearer <token>"
// metadata, and maps gRPC status codes to sentinel errors (ErrUnavailable,
// ErrUnauthorized, ErrConflict, ErrInvalidInput) that callers match with
// errors.Is.
package client
