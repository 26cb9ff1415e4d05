package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/guard"
	"github.com/dmitrijs2005/gophid/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// AuthServiceServer is the server side of gophid.auth.v1.AuthService.
type AuthServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(AuthServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// RegisterAuthService attaches svc to a gRPC server.
func RegisterAuthService(server grpc.ServiceRegistrar, svc AuthServiceServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: api.ServiceName,
		HandlerType: (*AuthServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Register", Handler: unaryHandler(api.MethodRegister, AuthServiceServer.Register)},
			{MethodName: "Login", Handler: unaryHandler(api.MethodLogin, AuthServiceServer.Login)},
			{MethodName: "GetProfile", Handler: unaryHandler(api.MethodGetProfile, AuthServiceServer.GetProfile)},
			{MethodName: "Ping", Handler: unaryHandler(api.MethodPing, AuthServiceServer.Ping)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "gophid/auth/v1/auth.proto",
	}, svc)
}

func unaryHandler(fullMethod string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		svc := srv.(AuthServiceServer)
		if interceptor == nil {
			return call(svc, ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return call(svc, ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}

type GRPCServer struct {
	address  string
	identity *services.IdentityService
	guard    *guard.Guard
	logger   logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, identity *services.IdentityService, g *guard.Guard) *GRPCServer {
	return &GRPCServer{
		address:  address,
		logger:   l.With("module", "grpc_server"),
		identity: identity,
		guard:    g,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	RegisterAuthService(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
