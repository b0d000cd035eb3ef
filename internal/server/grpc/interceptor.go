package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	pb "github.com/dmitrijs2005/gatekeeper/internal/proto"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// rateLimitedMethods are the endpoints that accept raw credentials.
var rateLimitedMethods = map[string]bool{
	pb.AuthService_Login_FullMethodName:    true,
	pb.AuthService_Register_FullMethodName: true,
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if s.metrics != nil {
		s.metrics.ObserveRPC(info.FullMethod, status.Code(err).String(), time.Since(start))
	}
	return resp, err
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.limiter == nil || !rateLimitedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	if !s.limiter.allow(peerKey(ctx)) {
		if s.metrics != nil {
			s.metrics.RateLimited(info.FullMethod)
		}
		return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
	}
	return handler(ctx, req)
}

// authInterceptor resolves the bearer token from the authorization metadata,
// applies the route rule and stores the principal in the context.
func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AuthorizationHeaderName)
		if len(values) > 0 {
			header = values[0]
		}
	}

	p, err := s.guard.Check(info.FullMethod, header)
	if err != nil {
		s.authDecision(info.FullMethod, err)
		return nil, toStatus(err)
	}

	if p != nil {
		ctx = auth.ContextWithPrincipal(ctx, p)
	}
	if _, protected := s.guard.Rule(info.FullMethod); protected {
		s.authDecision(info.FullMethod, nil)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) authDecision(method string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "allow"
	switch {
	case errors.Is(err, common.ErrorForbidden):
		outcome = "forbidden"
	case err != nil:
		outcome = "unauthenticated"
	}
	s.metrics.AuthDecision(method, outcome)
}

func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String()
	}
	return host
}

// peerLimiter keeps one token bucket per peer and forgets idle peers.
type peerLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newPeerLimiter(perSecond float64, burst int) *peerLimiter {
	if burst < 1 {
		burst = 1
	}
	return &peerLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     5 * time.Minute,
		now:     time.Now,
	}
}

func (l *peerLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.ttl {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}
