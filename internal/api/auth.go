// Package api names the gophid gRPC service and its methods. Messages are
// google.protobuf.Struct values, so client and server share only these names
// and the field keys.
package api

const (
	ServiceName = "gophid.auth.v1.AuthService"

	MethodRegister   = "/" + ServiceName + "/Register"
	MethodLogin      = "/" + ServiceName + "/Login"
	MethodGetProfile = "/" + ServiceName + "/GetProfile"
	MethodPing       = "/" + ServiceName + "/Ping"
)

// Request and response field keys.
const (
	FieldEmail       = "email"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldPassword    = "password"
	FieldAccessToken = "accessToken"
	FieldAccount     = "account"
	FieldStatus      = "status"
)
