package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleCompany   Role = "COMPANY"
)

func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleCompany
}

type User struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	PasswordHash     string            `json:"-"`
	Role             Role              `json:"role"`
	IsEmailVerified  bool              `json:"isEmailVerified"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	CandidateProfile *CandidateProfile `json:"candidateProfile,omitempty"`
	CompanyProfile   *CompanyProfile   `json:"companyProfile,omitempty"`
}

// Principal 是通过令牌解析出的当前请求的操作者，只在单个请求内有效
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (p *Principal) HasRole(roles ...Role) bool {
	return p != nil && slices.Contains(roles, p.Role)
}
