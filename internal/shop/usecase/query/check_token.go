package query

import (
	"context"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/internal/shop/gate"
)

// Authenticator resolves a session token
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (gate.Identity, error)
}

type CheckTokenQuery struct {
	Token string
}

type CheckTokenResult struct {
	Valid bool               `json:"valid"`
	User  domain.UserSummary `json:"user"`
}

type CheckTokenHandler struct {
	auth Authenticator
}

func NewCheckTokenHandler(auth Authenticator) *CheckTokenHandler {
	return &CheckTokenHandler{auth: auth}
}

func (h *CheckTokenHandler) Handle(ctx context.Context, q CheckTokenQuery) (*CheckTokenResult, error) {
	id, err := h.auth.Authenticate(ctx, q.Token)
	if err != nil {
		return nil, err
	}
	return &CheckTokenResult{Valid: true, User: id.User()}, nil
}
