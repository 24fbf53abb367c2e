// Package gate authenticates a request from the session token it carries.
// Channels (HTTP header, HTTP cookie, gRPC metadata) extract the token and
// hand it to Gate.Authenticate; the verification logic is shared.
package gate

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/logging"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
)

type Verifier interface {
	Verify(token string) (string, error)
}

type SubjectResolver interface {
	ResolveSubject(ctx context.Context, userID string) (*models.User, error)
}

type Gate struct {
	verifier Verifier
	resolver SubjectResolver
	logger   logging.Logger
}

func New(v Verifier, r SubjectResolver, l logging.Logger) *Gate {
	return &Gate{verifier: v, resolver: r, logger: l.With("module", "gate")}
}

// Authenticate resolves token to a user. Rejections are common.ErrNoToken,
// common.ErrInvalidToken or common.ErrUnknownSubject. The token failure kind
// is logged but never returned, so callers cannot tell an expired token from
// a forged one. Store failures pass through unchanged.
func (g *Gate) Authenticate(ctx context.Context, channel, token string) (*models.User, error) {
	if token == "" {
		g.logger.Info(ctx, "request rejected", "channel", channel, "reason", "NoToken")
		return nil, common.ErrNoToken
	}

	userID, err := g.verifier.Verify(token)
	if err != nil {
		g.logger.Info(ctx, "request rejected", "channel", channel, "reason", "InvalidToken", "kind", tokenKind(err))
		return nil, common.ErrInvalidToken
	}

	user, err := g.resolver.ResolveSubject(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrUnknownSubject) {
			g.logger.Info(ctx, "request rejected", "channel", channel, "reason", "UnknownSubject", "user_id", userID)
			return nil, common.ErrUnknownSubject
		}
		g.logger.Error(ctx, "error resolving subject", "channel", channel, "user_id", userID, "error", err)
		return nil, err
	}

	return user, nil
}

func tokenKind(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrTokenSignatureInvalid):
		return "signature_invalid"
	default:
		return "malformed"
	}
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the user attached by WithUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok && u != nil
}
