package grpc

import (
	pb "github.com/dmitrijs2005/gatekeeper/internal/proto"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Routes returns the access rules of the AuthService methods. Register,
// Login, RefreshToken and Ping are public.
func Routes() auth.Rules {
	return auth.Rules{
		pb.AuthService_Logout_FullMethodName:           {},
		pb.AuthService_Activate_FullMethodName:         {},
		pb.AuthService_ResendActivation_FullMethodName: {},
		pb.AuthService_GetUser_FullMethodName:          {},
		pb.AuthService_DeleteAccount_FullMethodName:    {Roles: []models.Role{models.RoleVisitor}},
		pb.AuthService_ArchiveUsers_FullMethodName:     {Roles: []models.Role{models.RoleAdmin}},
	}
}
