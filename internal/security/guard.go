package security

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

// IdentityResolver 根据令牌中的 sub 查找用户，用户不存在时返回 (nil, nil)
type IdentityResolver interface {
	ValidateUser(ctx context.Context, id string) (*domain.User, error)
}

type TokenVerifier interface {
	Verify(token string) (*AuthClaims, error)
}

// Guard 把一次请求的鉴权拆成 提取 -> 校验 -> 解析 -> 授权 四个阶段，任何一个阶段失败都会终止后续阶段
type Guard struct {
	tokens     TokenVerifier
	identities IdentityResolver
}

func NewGuard(tokens TokenVerifier, identities IdentityResolver) *Guard {
	return &Guard{tokens: tokens, identities: identities}
}

func (g *Guard) Extract(r *http.Request) (string, error) {
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		return "", domain.ErrMissingToken
	}
	return token, nil
}

func (g *Guard) Verify(token string) (*AuthClaims, error) {
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Resolve 以数据库中的用户为准，令牌签发之后被删除的用户会被拒绝
func (g *Guard) Resolve(ctx context.Context, claims *AuthClaims) (*domain.Principal, error) {
	user, err := g.identities.ValidateUser(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrIdentityGone
	}

	return &domain.Principal{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

// Authorize 在 roles 为空时放行所有已登录用户
func (g *Guard) Authorize(p *domain.Principal, roles ...domain.Role) error {
	if p == nil {
		return domain.ErrMissingToken
	}
	if len(roles) == 0 || p.HasRole(roles...) {
		return nil
	}
	return domain.ErrRoleNotAllowed
}

// Authenticate 依次执行前三个阶段
func (g *Guard) Authenticate(r *http.Request) (*domain.Principal, error) {
	token, err := g.Extract(r)
	if err != nil {
		return nil, err
	}
	claims, err := g.Verify(token)
	if err != nil {
		return nil, err
	}
	return g.Resolve(r.Context(), claims)
}
