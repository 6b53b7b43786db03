package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corestudio/studio-server/internal/domain"
	domainerrors "github.com/corestudio/studio-server/internal/errors"
)

// authenticateRequest validates the Authorization header and returns the user.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, _, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired token")
	}

	return user, nil
}

// authenticateAndRequireAdmin validates the token and requires admin role.
func (s *Server) authenticateAndRequireAdmin(ctx context.Context, authHeader string) (*domain.User, error) {
	user, err := s.authenticateRequest(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() {
		return nil, domainerrors.Forbidden("Admin access required")
	}

	return user, nil
}

// checkAuthRateLimit enforces the per-IP limiter on credential endpoints.
func (s *Server) checkAuthRateLimit(ip string) error {
	if s.authRateLimiter.Allow(ip) {
		return nil
	}
	s.logger.Warn("auth rate limit exceeded", "ip", ip)
	return huma.Error429TooManyRequests("Too many requests. Please try again later.")
}

// extractIP picks the client IP from proxy headers, preferring
// X-Forwarded-For over X-Real-IP. Returns "unknown" when neither is set.
func extractIP(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		// First IP in the chain is the original client.
		if i := strings.IndexByte(forwardedFor, ','); i >= 0 {
			return strings.TrimSpace(forwardedFor[:i])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP != "" {
		return realIP
	}
	return "unknown"
}
