package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	pb "github.com/dmitrijs2005/gatekeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AuthServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string

	// refreshMu serializes refreshes: a refresh token is single-use.
	refreshMu sync.Mutex
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	if token != "" {
		md.Set(common.AuthorizationHeaderName, common.BearerScheme+token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	return st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	// The refresh call itself travels without an access token.
	if method == pb.AuthService_RefreshToken_FullMethodName {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, _ := s.tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil || !isTokenExpired(err) {
		return err
	}

	next, rerr := s.refresh(ctx, access)
	if rerr != nil {
		return rerr
	}
	if next == "" {
		return err
	}

	return invoker(withAccessToken(ctx, next), method, req, reply, cc, opts...)
}

// refresh returns an access token newer than stale, exchanging the refresh
// token only if no other call has done so meanwhile. An empty result means
// there is nothing to refresh with.
func (s *GRPCClient) refresh(ctx context.Context, stale string) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	access, refresh := s.tokens()
	if access != stale && access != "" {
		return access, nil
	}
	if refresh == "" {
		return "", nil
	}

	resp, err := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refresh})
	if err != nil {
		if isTokenExpired(err) {
			s.setTokens("", "")
		}
		return "", err
	}

	s.setTokens(resp.Token, resp.RefreshToken)
	return resp.Token, nil
}

// NewGRPCClient dials endpointURL without transport security. Extra dial
// options are appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewAuthServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// LoggedIn reports whether the client holds a token pair.
func (s *GRPCClient) LoggedIn() bool {
	access, _ := s.tokens()
	return access != ""
}

func (s *GRPCClient) Register(ctx context.Context, in RegisterInput) error {

	req := &pb.RegisterRequest{
		Mail:      in.Mail,
		Password:  string(in.Password),
		Username:  in.UserName,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.setTokens(resp.Token, resp.RefreshToken)
	return nil
}

func (s *GRPCClient) Login(ctx context.Context, mail string, password []byte) error {

	req := &pb.LoginRequest{Username: mail, Password: string(password)}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.setTokens(resp.Token, resp.RefreshToken)
	return nil
}

// Logout revokes the server-side refresh token and forgets the local pair.
// The local pair is dropped even when the server call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, err := s.client.Logout(ctx, &pb.LogoutRequest{})
	s.setTokens("", "")
	if err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Activate(ctx context.Context) error {
	if _, err := s.client.Activate(ctx, &pb.ActivateRequest{}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ResendActivation(ctx context.Context) error {
	if _, err := s.client.ResendActivation(ctx, &pb.ResendActivationRequest{}); err != nil {
		return s.mapError(err)
	}
	return nil
}

// GetUser fetches the account with the given id, or the caller's own
// account when id is empty.
func (s *GRPCClient) GetUser(ctx context.Context, id string) (*Account, error) {
	resp, err := s.client.GetUser(ctx, &pb.GetUserRequest{Id: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.User == nil {
		return nil, ErrNotFound
	}

	u := resp.User
	return &Account{
		ID:               u.Id,
		UserName:         u.Username,
		Mail:             u.Mail,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Disabled:         u.Disabled,
		AccountActivated: u.AccountActivated,
		Roles:            u.Roles,
	}, nil
}

func (s *GRPCClient) DeleteAccount(ctx context.Context) error {
	if _, err := s.client.DeleteAccount(ctx, &pb.DeleteAccountRequest{}); err != nil {
		return s.mapError(err)
	}
	s.setTokens("", "")
	return nil
}

func (s *GRPCClient) ArchiveUsers(ctx context.Context, ids []string) (int64, error) {
	resp, err := s.client.ArchiveUsers(ctx, &pb.ArchiveUsersRequest{Ids: ids})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Archived, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
