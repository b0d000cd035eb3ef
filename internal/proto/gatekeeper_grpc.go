package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gatekeeper.v1.AuthService"

const (
	AuthService_Register_FullMethodName         = "/gatekeeper.v1.AuthService/Register"
	AuthService_Login_FullMethodName            = "/gatekeeper.v1.AuthService/Login"
	AuthService_Logout_FullMethodName           = "/gatekeeper.v1.AuthService/Logout"
	AuthService_RefreshToken_FullMethodName     = "/gatekeeper.v1.AuthService/RefreshToken"
	AuthService_Activate_FullMethodName         = "/gatekeeper.v1.AuthService/Activate"
	AuthService_ResendActivation_FullMethodName = "/gatekeeper.v1.AuthService/ResendActivation"
	AuthService_GetUser_FullMethodName          = "/gatekeeper.v1.AuthService/GetUser"
	AuthService_DeleteAccount_FullMethodName    = "/gatekeeper.v1.AuthService/DeleteAccount"
	AuthService_ArchiveUsers_FullMethodName     = "/gatekeeper.v1.AuthService/ArchiveUsers"
	AuthService_Ping_FullMethodName             = "/gatekeeper.v1.AuthService/Ping"
)

// AuthServiceServer is the server API for AuthService.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*TokenResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*SuccessResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error)
	Activate(context.Context, *ActivateRequest) (*SuccessResponse, error)
	ResendActivation(context.Context, *ResendActivationRequest) (*SuccessResponse, error)
	GetUser(context.Context, *GetUserRequest) (*UserResponse, error)
	DeleteAccount(context.Context, *DeleteAccountRequest) (*SuccessResponse, error)
	ArchiveUsers(context.Context, *ArchiveUsersRequest) (*ArchiveUsersResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// UnimplementedAuthServiceServer can be embedded to have forward compatible
// implementations.
type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) Register(context.Context, *RegisterRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedAuthServiceServer) Login(context.Context, *LoginRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedAuthServiceServer) Logout(context.Context, *LogoutRequest) (*SuccessResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedAuthServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedAuthServiceServer) Activate(context.Context, *ActivateRequest) (*SuccessResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Activate not implemented")
}
func (UnimplementedAuthServiceServer) ResendActivation(context.Context, *ResendActivationRequest) (*SuccessResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResendActivation not implemented")
}
func (UnimplementedAuthServiceServer) GetUser(context.Context, *GetUserRequest) (*UserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUser not implemented")
}
func (UnimplementedAuthServiceServer) DeleteAccount(context.Context, *DeleteAccountRequest) (*SuccessResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteAccount not implemented")
}
func (UnimplementedAuthServiceServer) ArchiveUsers(context.Context, *ArchiveUsersRequest) (*ArchiveUsersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ArchiveUsers not implemented")
}
func (UnimplementedAuthServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthService_ServiceDesc is the grpc.ServiceDesc for AuthService.
var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(AuthService_Register_FullMethodName, AuthServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(AuthService_Login_FullMethodName, AuthServiceServer.Login)},
		{MethodName: "Logout", Handler: unaryHandler(AuthService_Logout_FullMethodName, AuthServiceServer.Logout)},
		{MethodName: "RefreshToken", Handler: unaryHandler(AuthService_RefreshToken_FullMethodName, AuthServiceServer.RefreshToken)},
		{MethodName: "Activate", Handler: unaryHandler(AuthService_Activate_FullMethodName, AuthServiceServer.Activate)},
		{MethodName: "ResendActivation", Handler: unaryHandler(AuthService_ResendActivation_FullMethodName, AuthServiceServer.ResendActivation)},
		{MethodName: "GetUser", Handler: unaryHandler(AuthService_GetUser_FullMethodName, AuthServiceServer.GetUser)},
		{MethodName: "DeleteAccount", Handler: unaryHandler(AuthService_DeleteAccount_FullMethodName, AuthServiceServer.DeleteAccount)},
		{MethodName: "ArchiveUsers", Handler: unaryHandler(AuthService_ArchiveUsers_FullMethodName, AuthServiceServer.ArchiveUsers)},
		{MethodName: "Ping", Handler: unaryHandler(AuthService_Ping_FullMethodName, AuthServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gatekeeper/v1/auth",
}

// AuthServiceClient is the client API for AuthService.
type AuthServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*SuccessResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	Activate(ctx context.Context, in *ActivateRequest, opts ...grpc.CallOption) (*SuccessResponse, error)
	ResendActivation(ctx context.Context, in *ResendActivationRequest, opts ...grpc.CallOption) (*SuccessResponse, error)
	GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*UserResponse, error)
	DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*SuccessResponse, error)
	ArchiveUsers(ctx context.Context, in *ArchiveUsersRequest, opts ...grpc.CallOption) (*ArchiveUsersResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, AuthService_Register_FullMethodName, in, opts)
}

func (c *authServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, AuthService_Login_FullMethodName, in, opts)
}

func (c *authServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*SuccessResponse, error) {
	return invoke[SuccessResponse](ctx, c.cc, AuthService_Logout_FullMethodName, in, opts)
}

func (c *authServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, AuthService_RefreshToken_FullMethodName, in, opts)
}

func (c *authServiceClient) Activate(ctx context.Context, in *ActivateRequest, opts ...grpc.CallOption) (*SuccessResponse, error) {
	return invoke[SuccessResponse](ctx, c.cc, AuthService_Activate_FullMethodName, in, opts)
}

func (c *authServiceClient) ResendActivation(ctx context.Context, in *ResendActivationRequest, opts ...grpc.CallOption) (*SuccessResponse, error) {
	return invoke[SuccessResponse](ctx, c.cc, AuthService_ResendActivation_FullMethodName, in, opts)
}

func (c *authServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, AuthService_GetUser_FullMethodName, in, opts)
}

func (c *authServiceClient) DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*SuccessResponse, error) {
	return invoke[SuccessResponse](ctx, c.cc, AuthService_DeleteAccount_FullMethodName, in, opts)
}

func (c *authServiceClient) ArchiveUsers(ctx context.Context, in *ArchiveUsersRequest, opts ...grpc.CallOption) (*ArchiveUsersResponse, error) {
	return invoke[ArchiveUsersResponse](ctx, c.cc, AuthService_ArchiveUsers_FullMethodName, in, opts)
}

func (c *authServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, AuthService_Ping_FullMethodName, in, opts)
}
