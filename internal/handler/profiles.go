package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/service"
)

func (h *Handler) CreateCompanyProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyName string `json:"companyName" validate:"required,max=200"`
		Description string `json:"description"`
		Website     string `json:"website" validate:"omitempty,url"`
		LogoURL     string `json:"logoUrl" validate:"omitempty,url"`
		Location    string `json:"location" validate:"max=200"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.users.CreateCompanyProfile(r.Context(), principal(r).ID, service.CompanyProfileInput{
		CompanyName: req.CompanyName,
		Description: req.Description,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
		Location:    req.Location,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.createdResponse(w, r, "公司资料创建成功", profile)
}

func (h *Handler) UpdateCompanyProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyName *string `json:"companyName" validate:"omitempty,min=1,max=200"`
		Description *string `json:"description"`
		Website     *string `json:"website" validate:"omitempty,url"`
		LogoURL     *string `json:"logoUrl" validate:"omitempty,url"`
		Location    *string `json:"location" validate:"omitempty,max=200"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.users.UpdateCompanyProfile(r.Context(), principal(r).ID, service.CompanyProfilePatch{
		CompanyName: req.CompanyName,
		Description: req.Description,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
		Location:    req.Location,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "公司资料更新成功", profile)
}

func (h *Handler) CreateCandidateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName" validate:"required,max=100"`
		LastName  string `json:"lastName" validate:"required,max=100"`
		Phone     string `json:"phone" validate:"max=30"`
		Bio       string `json:"bio"`
		ResumeURL string `json:"resumeUrl" validate:"omitempty,url"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.users.CreateCandidateProfile(r.Context(), principal(r).ID, service.CandidateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Bio:       req.Bio,
		ResumeURL: req.ResumeURL,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.createdResponse(w, r, "求职者资料创建成功", profile)
}

func (h *Handler) UpdateCandidateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
		LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
		Phone     *string `json:"phone" validate:"omitempty,max=30"`
		Bio       *string `json:"bio"`
		ResumeURL *string `json:"resumeUrl" validate:"omitempty,url"`
	}

	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.users.UpdateCandidateProfile(r.Context(), principal(r).ID, service.CandidateProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Bio:       req.Bio,
		ResumeURL: req.ResumeURL,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.successResponse(w, r, "求职者资料更新成功", profile)
}
