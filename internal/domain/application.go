package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending ApplicationStatus = "PENDING"
)

type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	CandidateID string            `json:"candidateId"`
	CoverLetter string            `json:"coverLetter"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`

	Job       *Job              `json:"job,omitempty"`
	Candidate *CandidateProfile `json:"candidate,omitempty"`
}
