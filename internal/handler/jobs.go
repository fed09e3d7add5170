package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/service"
)

// nullableInt 区分请求体中缺省的字段和显式的 null
type nullableInt struct {
	Set   bool
	Value *int
}

func (n *nullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// parsePositiveQuery 在参数缺省时返回 0，由服务层填充默认值
func parsePositiveQuery(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, domain.ErrInvalidPagination
	}
	return n, nil
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := struct {
		Search     string `validate:"max=200"`
		Location   string `validate:"max=200"`
		Type       string `validate:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP FREELANCE"`
		Experience string `validate:"max=200"`
		CompanyID  string `validate:"omitempty,uuid"`
	}{
		Search:     q.Get("search"),
		Location:   q.Get("location"),
		Type:       q.Get("type"),
		Experience: q.Get("experience"),
		CompanyID:  q.Get("companyId"),
	}
	if err := h.validate.Struct(query); err != nil {
		h.badRequest(w, r, err)
		return
	}

	page, err := parsePositiveQuery(r, "page")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	limit, err := parsePositiveQuery(r, "limit")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	res, err := h.jobs.FindAll(r.Context(), domain.JobFilter{
		Search:     query.Search,
		Location:   query.Location,
		Type:       domain.JobType(query.Type),
		Experience: query.Experience,
		CompanyID:  query.CompanyID,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取职位列表成功", res)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.FindOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取职位信息成功", job)
}

func (h *Handler) GetMyJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.FindByCompany(r.Context(), principal(r).ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我发布的职位成功", jobs)
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description" validate:"required"`
		Location    string `json:"location" validate:"required,max=200"`
		SalaryMin   *int   `json:"salaryMin" validate:"omitempty,min=0"`
		SalaryMax   *int   `json:"salaryMax" validate:"omitempty,min=0"`
		Experience  string `json:"experience" validate:"max=200"`
		Type        string `json:"type" validate:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP FREELANCE"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobs.Create(r.Context(), service.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		Experience:  req.Experience,
		Type:        domain.JobType(req.Type),
	}, principal(r).ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.createdResponse(w, r, "职位创建成功", job)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string     `json:"title" validate:"omitempty,min=1,max=200"`
		Description *string     `json:"description" validate:"omitempty,min=1"`
		Location    *string     `json:"location" validate:"omitempty,min=1,max=200"`
		SalaryMin   nullableInt `json:"salaryMin"`
		SalaryMax   nullableInt `json:"salaryMax"`
		Experience  *string     `json:"experience" validate:"omitempty,max=200"`
		Type        *string     `json:"type" validate:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP FREELANCE"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	// 薪资为 null 表示清空，负数由服务层拒绝
	patch := service.JobPatch{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		SalaryMin:      req.SalaryMin.Value,
		SalaryMax:      req.SalaryMax.Value,
		ClearSalaryMin: req.SalaryMin.Set && req.SalaryMin.Value == nil,
		ClearSalaryMax: req.SalaryMax.Set && req.SalaryMax.Value == nil,
		Experience:     req.Experience,
	}
	if req.Type != nil {
		t := domain.JobType(*req.Type)
		patch.Type = &t
	}

	job, err := h.jobs.Update(r.Context(), chi.URLParam(r, "id"), principal(r).ID, patch)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "职位更新成功", job)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.Remove(r.Context(), chi.URLParam(r, "id"), principal(r).ID); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ApplyJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CoverLetter string `json:"coverLetter" validate:"max=5000"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	application, err := h.jobs.Apply(r.Context(), chi.URLParam(r, "id"), principal(r).ID, req.CoverLetter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.createdResponse(w, r, "投递成功", application)
}

func (h *Handler) GetJobApplications(w http.ResponseWriter, r *http.Request) {
	applications, err := h.jobs.ListApplications(r.Context(), chi.URLParam(r, "id"), principal(r).ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取职位申请成功", applications)
}
