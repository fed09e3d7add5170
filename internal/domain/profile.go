package domain

import "time"

type CandidateProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	Bio       string    `json:"bio"`
	ResumeURL string    `json:"resumeUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CompanyProfile 的 ID 是职位表上的外键，与所属用户的 ID 不同
type CompanyProfile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CompanyName string    `json:"companyName"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	LogoURL     string    `json:"logoUrl"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
