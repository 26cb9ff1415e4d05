package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/guard"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var protectedMethods = map[string]struct{}{
	api.MethodGetProfile: {},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if _, ok := protectedMethods[info.FullMethod]; ok {

		var authorization string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AuthorizationHeaderName)
			if len(values) > 0 {
				authorization = values[0]
			}
		}

		account, err := s.guard.Authenticate(ctx, authorization)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "Unauthorized")
		}

		ctx = guard.WithAccount(ctx, account)
	}

	return handler(ctx, req)
}
