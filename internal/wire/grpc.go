package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "matrimo.auth.v1.AuthService"

// gRPC method names.
const (
	MethodLogin          = "Login"
	MethodRegister       = "Register"
	MethodLogout         = "Logout"
	MethodRefreshToken   = "RefreshToken"
	MethodForgotPassword = "ForgotPassword"
	MethodVerifyResetOTP = "VerifyResetOTP"
	MethodResetPassword  = "ResetPassword"
	MethodPing           = "Ping"
)

// FullMethod returns "/matrimo.auth.v1.AuthService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AuthServer is the server API for the auth service.
type AuthServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ForgotPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VerifyResetOTP(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AuthServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes AuthService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodLogin, Handler: unaryHandler(MethodLogin, AuthServer.Login)},
		{MethodName: MethodRegister, Handler: unaryHandler(MethodRegister, AuthServer.Register)},
		{MethodName: MethodLogout, Handler: unaryHandler(MethodLogout, AuthServer.Logout)},
		{MethodName: MethodRefreshToken, Handler: unaryHandler(MethodRefreshToken, AuthServer.RefreshToken)},
		{MethodName: MethodForgotPassword, Handler: unaryHandler(MethodForgotPassword, AuthServer.ForgotPassword)},
		{MethodName: MethodVerifyResetOTP, Handler: unaryHandler(MethodVerifyResetOTP, AuthServer.VerifyResetOTP)},
		{MethodName: MethodResetPassword, Handler: unaryHandler(MethodResetPassword, AuthServer.ResetPassword)},
		{MethodName: MethodPing, Handler: unaryHandler(MethodPing, AuthServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "matrimo/auth/v1/auth",
}

// RegisterAuthServer registers srv with s.
func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&ServiceDesc, srv)
}
