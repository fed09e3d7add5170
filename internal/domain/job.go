package domain

import (
	"math"
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeContract   JobType = "CONTRACT"
	JobTypeInternship JobType = "INTERNSHIP"
	JobTypeFreelance  JobType = "FREELANCE"
)

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	SalaryMin   *int      `json:"salaryMin"`
	SalaryMax   *int      `json:"salaryMax"`
	Experience  string    `json:"experience"`
	Type        JobType   `json:"type"`
	CompanyID   string    `json:"companyId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Company          *CompanySummary `json:"company,omitempty"`
	ApplicationCount *int            `json:"applicationCount,omitempty"`
}

// CompanySummary 是嵌入在职位中的公司信息，UserID 用于判断职位归属
type CompanySummary struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	LogoURL     string `json:"logoUrl"`
	UserID      string `json:"userId,omitempty"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// JobFilter 中的所有条件都是可选的，多个条件之间是“与”的关系
type JobFilter struct {
	Search     string
	Location   string
	Type       JobType
	Experience string
	CompanyID  string
	Page       int
	Limit      int
}

func (f JobFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewPageMeta(total, page, limit int) PageMeta {
	return PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

type JobPage struct {
	Data []*Job   `json:"data"`
	Meta PageMeta `json:"meta"`
}
