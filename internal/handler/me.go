package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/service"
)

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByID(r.Context(), principal(r).ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取个人信息成功", user)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email *string `json:"email" validate:"omitempty,email"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Update(r.Context(), principal(r).ID, service.UserPatch{Email: req.Email})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新个人信息成功", user)
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), principal(r).ID); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "账户已删除", nil)
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.ChangePassword(r.Context(), principal(r).ID, req.OldPassword, req.NewPassword); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新密码成功", nil)
}

func (h *Handler) GetMyApplications(w http.ResponseWriter, r *http.Request) {
	applications, err := h.jobs.MyApplications(r.Context(), principal(r).ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的申请成功", applications)
}

func (h *Handler) RequireEmailVerification(w http.ResponseWriter, r *http.Request) {
	if err := h.verification.RequestVerification(r.Context(), principal(r).ID); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "验证码已通过邮件发送", nil)
}

func (h *Handler) ConfirmEmailVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OTP string `json:"otp" validate:"required,len=6,numeric"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.verification.ConfirmVerification(r.Context(), principal(r).ID, req.OTP)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "邮箱验证成功", user)
}
