package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// AuthResult is the server's answer to register and login.
type AuthResult struct {
	AccessToken string
	Account     map[string]any
}

type GRPCClient struct {
	endpointURL string
	conn        grpc.ClientConnInterface
	closer      func() error
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	s.conn = conn
	s.closer = conn.Close
	return nil
}

func (s *GRPCClient) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *GRPCClient) invoke(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	resp := &structpb.Struct{}
	if err := s.conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Register(ctx context.Context, email, firstName, lastName, password string) (*AuthResult, error) {
	resp, err := s.invoke(ctx, api.MethodRegister, map[string]any{
		api.FieldEmail:     email,
		api.FieldFirstName: firstName,
		api.FieldLastName:  lastName,
		api.FieldPassword:  password,
	})
	if err != nil {
		return nil, err
	}
	return toAuthResult(resp), nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	resp, err := s.invoke(ctx, api.MethodLogin, map[string]any{
		api.FieldEmail:    email,
		api.FieldPassword: password,
	})
	if err != nil {
		return nil, err
	}
	return toAuthResult(resp), nil
}

// Profile returns the account the token was issued for.
func (s *GRPCClient) Profile(ctx context.Context, token string) (map[string]any, error) {
	resp, err := s.invoke(withAccessToken(ctx, token), api.MethodGetProfile, map[string]any{})
	if err != nil {
		return nil, err
	}
	return resp.GetFields()[api.FieldAccount].GetStructValue().AsMap(), nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.invoke(ctx, api.MethodPing, map[string]any{})
	return err
}

func toAuthResult(resp *structpb.Struct) *AuthResult {
	return &AuthResult{
		AccessToken: resp.GetFields()[api.FieldAccessToken].GetStringValue(),
		Account:     resp.GetFields()[api.FieldAccount].GetStructValue().AsMap(),
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return ErrConflict
	case codes.InvalidArgument, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
