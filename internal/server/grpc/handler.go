package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/gatekeeper/internal/proto"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
)

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.TokenResponse, error) {

	s.logger.Info(ctx, "Registration request")

	pair, err := s.auth.Register(ctx, services.RegisterRequest{
		Mail:      req.Mail,
		Password:  req.Password,
		UserName:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		s.logger.Warn(ctx, "Registration failed", "error", err)
		return nil, toStatus(err)
	}

	s.tokenPairIssued("register")
	return tokenResponse(pair), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.TokenResponse, error) {

	pair, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Warn(ctx, "Login failed", "error", err)
		return nil, toStatus(err)
	}

	s.tokenPairIssued("login")
	return tokenResponse(pair), nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *pb.LogoutRequest) (*pb.SuccessResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := s.auth.Logout(ctx, p.ID); err != nil {
		return nil, toStatus(err)
	}
	return &pb.SuccessResponse{Success: true}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.TokenResponse, error) {

	pair, err := s.auth.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		s.logger.Warn(ctx, "Refresh failed", "error", err)
		return nil, toStatus(err)
	}

	s.tokenPairIssued("refresh")
	return tokenResponse(pair), nil
}

func (s *GRPCServer) Activate(ctx context.Context, _ *pb.ActivateRequest) (*pb.SuccessResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := s.auth.ActivateAccount(ctx, p.ID); err != nil {
		return nil, toStatus(err)
	}
	return &pb.SuccessResponse{Success: true}, nil
}

func (s *GRPCServer) ResendActivation(ctx context.Context, _ *pb.ResendActivationRequest) (*pb.SuccessResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := s.auth.ResendActivation(ctx, p.ID); err != nil {
		return nil, toStatus(err)
	}
	return &pb.SuccessResponse{Success: true}, nil
}

// GetUser defaults to the caller when no id is given.
func (s *GRPCServer) GetUser(ctx context.Context, req *pb.GetUserRequest) (*pb.UserResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	target := req.Id
	if target == "" {
		target = p.ID
	}

	u, err := s.auth.GetUser(ctx, p, target)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.UserResponse{User: toUser(u), Success: true}, nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, _ *pb.DeleteAccountRequest) (*pb.SuccessResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := s.auth.DeleteAccount(ctx, p); err != nil {
		return nil, toStatus(err)
	}
	return &pb.SuccessResponse{Success: true}, nil
}

func (s *GRPCServer) ArchiveUsers(ctx context.Context, req *pb.ArchiveUsersRequest) (*pb.ArchiveUsersResponse, error) {
	n, err := s.auth.ArchiveUsers(ctx, req.Ids)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.ArchiveUsersResponse{Archived: n, Success: true}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *pb.PingRequest) (*pb.PingResponse, error) {

	return &pb.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) tokenPairIssued(flow string) {
	if s.metrics != nil {
		s.metrics.TokenPairIssued(flow)
	}
}

func tokenResponse(pair *services.TokenPair) *pb.TokenResponse {
	return &pb.TokenResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken, Success: true}
}

func toUser(u *models.User) *pb.User {
	return &pb.User{
		Id:               u.ID,
		Username:         u.UserName,
		Mail:             u.Mail,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		ImgUrl:           u.ImgURL,
		Disabled:         u.Disabled,
		AccountActivated: u.AccountActivated,
		Roles:            u.RoleNames(),
	}
}
