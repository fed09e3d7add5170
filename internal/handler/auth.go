package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Role     string `json:"role" validate:"required,oneof=CANDIDATE COMPANY"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.auth.Register(r.Context(), req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.createdResponse(w, r, "注册成功", res)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "登录成功", res)
}
