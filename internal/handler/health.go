package handler

import (
	"context"
	"net/http"
	"sort"
	"time"
)

const readinessTimeout = 2 * time.Second

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "服务运行中", nil)
}

// Readiness 逐个检查外部依赖，任意一个不可用时返回 503
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.readiness))
	for name := range h.readiness {
		names = append(names, name)
	}
	sort.Strings(names)

	status := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		if err := h.readiness[name](ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("依赖不可用")
			status[name] = "down"
			ready = false
			continue
		}
		status[name] = "up"
	}

	if !ready {
		h.writeJSON(w, r, http.StatusServiceUnavailable, Response{
			Success: false,
			Message: "服务未就绪",
			Data:    status,
		})
		return
	}

	h.successResponse(w, r, "服务已就绪", status)
}
