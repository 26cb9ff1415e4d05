package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/guard"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/services"
	"github.com/dmitrijs2005/gophid/internal/server/validation"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	in, err := validation.Register(
		stringField(req, api.FieldEmail),
		stringField(req, api.FieldFirstName),
		stringField(req, api.FieldLastName),
		stringField(req, api.FieldPassword),
	)
	if err != nil {
		return nil, toStatus(err)
	}

	result, err := s.identity.Register(ctx, in.Email, in.FirstName, in.LastName, in.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "account_id", result.Account.ID)
	return authResponse(result)
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	email, err := validation.Login(stringField(req, api.FieldEmail), stringField(req, api.FieldPassword))
	if err != nil {
		return nil, toStatus(err)
	}

	result, err := s.identity.Authenticate(ctx, services.LocalCredentials{
		Email:    email,
		Password: stringField(req, api.FieldPassword),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return authResponse(result)
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	account, ok := guard.AccountFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrUnauthenticated)
	}

	return newStruct(map[string]any{api.FieldAccount: accountFields(account)})
}

func (s *GRPCServer) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	return newStruct(map[string]any{api.FieldStatus: "OK"})

}

func authResponse(result *services.AuthResult) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		api.FieldAccessToken: result.AccessToken,
		api.FieldAccount:     accountFields(result.Account),
	})
}

func accountFields(a models.AccountView) map[string]any {
	fields := map[string]any{
		"id":              a.ID,
		"email":           a.Email,
		"firstName":       a.FirstName,
		"lastName":        a.LastName,
		"isEmailVerified": a.IsEmailVerified,
		"hasPassword":     a.HasPassword,
		"createdAt":       a.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt":       a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a.ExternalID != "" {
		fields["googleId"] = a.ExternalID
	}
	return fields
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}

// toStatus maps service errors to gRPC codes. Unknown errors never leak
// their text to the caller.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrConflict):
		return status.Error(codes.AlreadyExists, "Email already in use")
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "Invalid credentials")
	case errors.Is(err, common.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, "Unauthorized")
	case errors.Is(err, common.ErrExternalProfileIncomplete):
		return status.Error(codes.FailedPrecondition, "No email found from Google profile")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
