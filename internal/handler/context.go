package handler

import (
	"context"
	"net/http"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

type ContextKey string

var (
	PrincipalCtxKey ContextKey = "principal"
)

func withPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, PrincipalCtxKey, p)
}

// principal 只能在经过 authenticate 中间件的路由中使用
func principal(r *http.Request) *domain.Principal {
	p, _ := r.Context().Value(PrincipalCtxKey).(*domain.Principal)
	return p
}
