// Package grpc exposes AuthService over gRPC. A chain of unary interceptors
// records metrics, rate-limits credential endpoints and enforces the route
// rules before the handlers run.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	pb "github.com/dmitrijs2005/gatekeeper/internal/proto"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/obs"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the business API the handlers delegate to.
type AuthService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.TokenPair, error)
	Login(ctx context.Context, mail, password string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	ActivateAccount(ctx context.Context, userID string) error
	ResendActivation(ctx context.Context, userID string) error
	GetUser(ctx context.Context, caller *auth.Principal, targetID string) (*models.User, error)
	DeleteAccount(ctx context.Context, caller *auth.Principal) error
	ArchiveUsers(ctx context.Context, ids []string) (int64, error)
}

// RateLimit configures the per-peer token bucket on Login and Register.
// A zero PerSecond disables limiting.
type RateLimit struct {
	PerSecond float64
	Burst     int
}

type GRPCServer struct {
	pb.UnimplementedAuthServiceServer
	address string
	auth    AuthService
	guard   *auth.Guard
	limiter *peerLimiter
	metrics *obs.Metrics
	logger  logging.Logger
}

// NewGRPCServer builds the server. metrics may be nil.
func NewGRPCServer(a string, l logging.Logger, svc AuthService, guard *auth.Guard, m *obs.Metrics, rl RateLimit) *GRPCServer {
	s := &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    svc,
		guard:   guard,
		metrics: m,
	}
	if rl.PerSecond > 0 {
		s.limiter = newPeerLimiter(rl.PerSecond, rl.Burst)
	}
	return s
}

// newServer creates the grpc.Server with the interceptor chain and the
// service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metricsInterceptor,
		s.rateLimitInterceptor,
		s.authInterceptor,
	))
	pb.RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
