package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

/*************
 * Fake connection
 *************/

type fakeConn struct {
	lastMethod string
	lastReq    *structpb.Struct
	lastMD     metadata.MD

	resp map[string]any
	err  error
}

func (f *fakeConn) Invoke(ctx context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	f.lastMethod = method
	f.lastReq = args.(*structpb.Struct)
	f.lastMD, _ = metadata.FromOutgoingContext(ctx)
	if f.err != nil {
		return f.err
	}
	out, err := structpb.NewStruct(f.resp)
	if err != nil {
		return err
	}
	reply.(*structpb.Struct).Fields = out.Fields
	return nil
}

func (f *fakeConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("not supported")
}

func newClient(f *fakeConn) *GRPCClient {
	return &GRPCClient{conn: f}
}

func TestRegister(t *testing.T) {
	f := &fakeConn{resp: map[string]any{
		"accessToken": "tok",
		"account":     map[string]any{"id": "id-1", "email": "a@x.io"},
	}}
	c := newClient(f)

	res, err := c.Register(context.Background(), "a@x.io", "Ann", "Lee", "Secret123")
	require.NoError(t, err)

	assert.Equal(t, api.MethodRegister, f.lastMethod)
	assert.Equal(t, map[string]any{
		"email": "a@x.io", "firstName": "Ann", "lastName": "Lee", "password": "Secret123",
	}, f.lastReq.AsMap())
	assert.Equal(t, "tok", res.AccessToken)
	assert.Equal(t, "id-1", res.Account["id"])
}

func TestLogin(t *testing.T) {
	f := &fakeConn{resp: map[string]any{"accessToken": "tok"}}
	c := newClient(f)

	res, err := c.Login(context.Background(), "a@x.io", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, api.MethodLogin, f.lastMethod)
	assert.Equal(t, "tok", res.AccessToken)
	assert.Empty(t, f.lastMD.Get("authorization"))
}

func TestProfile_SendsBearerToken(t *testing.T) {
	f := &fakeConn{resp: map[string]any{"account": map[string]any{"email": "a@x.io"}}}
	c := newClient(f)

	account, err := c.Profile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, api.MethodGetProfile, f.lastMethod)
	assert.Equal(t, []string{"Bearer tok"}, f.lastMD.Get("authorization"))
	assert.Equal(t, "a@x.io", account["email"])
}

func TestPing(t *testing.T) {
	f := &fakeConn{resp: map[string]any{"status": "OK"}}
	require.NoError(t, newClient(f).Ping(context.Background()))
	assert.Equal(t, api.MethodPing, f.lastMethod)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		code codes.Code
		want error
	}{
		{code: codes.Unauthenticated, want: ErrUnauthorized},
		{code: codes.PermissionDenied, want: ErrUnauthorized},
		{code: codes.Unavailable, want: ErrUnavailable},
		{code: codes.DeadlineExceeded, want: ErrUnavailable},
		{code: codes.AlreadyExists, want: ErrConflict},
		{code: codes.InvalidArgument, want: ErrInvalidInput},
		{code: codes.FailedPrecondition, want: ErrInvalidInput},
	}

	for _, tt := range tests {
		c := newClient(&fakeConn{err: status.Error(tt.code, "x")})
		err := c.Ping(context.Background())
		assert.ErrorIs(t, err, tt.want, tt.code.String())
	}

	c := newClient(&fakeConn{err: status.Error(codes.Internal, "internal error")})
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc error")
}

func TestNewGRPCClient(t *testing.T) {
	c, err := NewGRPCClient("127.0.0.1:50051")
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}
