package handler

import "net/http"

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindAll(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取用户列表成功", users)
}
