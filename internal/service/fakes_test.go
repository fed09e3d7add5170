package service

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/otp"
)

// memStore 在内存中实现所有 repository 接口，未找到时与数据库一样返回 sql.ErrNoRows
type memStore struct {
	mu sync.Mutex

	users        map[string]*domain.User
	companies    map[string]*domain.CompanyProfile   // user id -> profile
	candidates   map[string]*domain.CandidateProfile // user id -> profile
	jobs         []*domain.Job
	applications []*domain.Application

	seq   int
	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*domain.User{},
		companies:  map[string]*domain.CompanyProfile{},
		candidates: map[string]*domain.CandidateProfile{},
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) CheckEmailIfExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}

	user.ID = m.nextID("user")
	user.CreatedAt = m.tick()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	if p, ok := m.companies[id]; ok {
		pc := *p
		cp.CompanyProfile = &pc
	}
	if p, ok := m.candidates[id]; ok {
		pc := *p
		cp.CandidateProfile = &pc
	}
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetAllUsers(_ context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (m *memStore) UpdateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	for _, u := range m.users {
		if u.ID != user.ID && u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.UpdatedAt = m.tick()
	cp := *user
	cp.CandidateProfile, cp.CompanyProfile = nil, nil
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)

	if c, ok := m.companies[id]; ok {
		m.jobs = slices.DeleteFunc(m.jobs, func(j *domain.Job) bool { return j.CompanyID == c.ID })
		delete(m.companies, id)
	}
	if c, ok := m.candidates[id]; ok {
		m.applications = slices.DeleteFunc(m.applications, func(a *domain.Application) bool { return a.CandidateID == c.ID })
		delete(m.candidates, id)
	}
	return nil
}

func (m *memStore) GetCompanyProfileByUserID(_ context.Context, userID string) (*domain.CompanyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.companies[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) CreateCompanyProfile(_ context.Context, p *domain.CompanyProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.companies[p.UserID]; ok {
		return domain.ErrCompanyProfileExists
	}
	p.ID = m.nextID("company")
	p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.companies[p.UserID] = &cp
	return nil
}

func (m *memStore) UpdateCompanyProfile(_ context.Context, p *domain.CompanyProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.companies[p.UserID]; !ok {
		return sql.ErrNoRows
	}
	p.UpdatedAt = m.tick()
	cp := *p
	m.companies[p.UserID] = &cp
	return nil
}

func (m *memStore) GetCandidateProfileByUserID(_ context.Context, userID string) (*domain.CandidateProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.candidates[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) CreateCandidateProfile(_ context.Context, p *domain.CandidateProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.candidates[p.UserID]; ok {
		return domain.ErrCandidateProfileExists
	}
	p.ID = m.nextID("candidate")
	p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.candidates[p.UserID] = &cp
	return nil
}

func (m *memStore) UpdateCandidateProfile(_ context.Context, p *domain.CandidateProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.candidates[p.UserID]; !ok {
		return sql.ErrNoRows
	}
	p.UpdatedAt = m.tick()
	cp := *p
	m.candidates[p.UserID] = &cp
	return nil
}

func (m *memStore) companyByID(id string) *domain.CompanyProfile {
	for _, c := range m.companies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// readJob 需要在持有锁的情况下调用
func (m *memStore) readJob(j *domain.Job, withOwner bool) *domain.Job {
	cp := *j
	c := m.companyByID(j.CompanyID)
	cp.Company = &domain.CompanySummary{ID: c.ID, CompanyName: c.CompanyName, LogoURL: c.LogoURL}
	if withOwner {
		cp.Company.UserID = c.UserID
		count := 0
		for _, a := range m.applications {
			if a.JobID == j.ID {
				count++
			}
		}
		cp.ApplicationCount = &count
	}
	return &cp
}

func (m *memStore) GetJobByID(_ context.Context, id string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, j := range m.jobs {
		if j.ID == id {
			return m.readJob(j, true), nil
		}
	}
	return nil, sql.ErrNoRows
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (m *memStore) ListJobs(_ context.Context, f domain.JobFilter) ([]*domain.Job, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*domain.Job, 0)
	for _, j := range m.jobs {
		if f.Search != "" && !containsFold(j.Title, f.Search) && !containsFold(j.Description, f.Search) {
			continue
		}
		if f.Location != "" && !containsFold(j.Location, f.Location) {
			continue
		}
		if f.Type != "" && j.Type != f.Type {
			continue
		}
		if f.Experience != "" && !containsFold(j.Experience, f.Experience) {
			continue
		}
		if f.CompanyID != "" && j.CompanyID != f.CompanyID {
			continue
		}
		matched = append(matched, m.readJob(j, false))
	}

	slices.SortFunc(matched, func(a, b *domain.Job) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := len(matched)
	lo := min(f.Offset(), total)
	hi := min(lo+f.Limit, total)
	return matched[lo:hi], total, nil
}

func (m *memStore) ListJobsByCompanyUser(_ context.Context, userID string) ([]*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	jobs := make([]*domain.Job, 0)
	c, ok := m.companies[userID]
	if !ok {
		return jobs, nil
	}
	for _, j := range m.jobs {
		if j.CompanyID == c.ID {
			jobs = append(jobs, m.readJob(j, true))
		}
	}
	slices.SortFunc(jobs, func(a, b *domain.Job) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return jobs, nil
}

func (m *memStore) CreateJob(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.ID = m.nextID("job")
	job.CreatedAt = m.tick()
	job.UpdatedAt = job.CreatedAt
	cp := *job
	cp.Company, cp.ApplicationCount = nil, nil
	m.jobs = append(m.jobs, &cp)
	return nil
}

func (m *memStore) UpdateJob(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, j := range m.jobs {
		if j.ID == job.ID {
			job.UpdatedAt = m.tick()
			cp := *job
			cp.Company, cp.ApplicationCount = nil, nil
			m.jobs[i] = &cp
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) DeleteJob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.jobs)
	m.jobs = slices.DeleteFunc(m.jobs, func(j *domain.Job) bool { return j.ID == id })
	if len(m.jobs) == n {
		return sql.ErrNoRows
	}
	m.applications = slices.DeleteFunc(m.applications, func(a *domain.Application) bool { return a.JobID == id })
	return nil
}

func (m *memStore) CreateApplication(_ context.Context, a *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.applications {
		if existing.JobID == a.JobID && existing.CandidateID == a.CandidateID {
			return domain.ErrAlreadyApplied
		}
	}
	a.ID = m.nextID("application")
	a.CreatedAt = m.tick()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.applications = append(m.applications, &cp)
	return nil
}

func (m *memStore) ListApplicationsByJob(_ context.Context, jobID string) ([]*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]*domain.Application, 0)
	for _, a := range m.applications {
		if a.JobID == jobID {
			cp := *a
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (m *memStore) ListApplicationsByCandidate(_ context.Context, candidateID string) ([]*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]*domain.Application, 0)
	for _, a := range m.applications {
		if a.CandidateID == candidateID {
			cp := *a
			res = append(res, &cp)
		}
	}
	return res, nil
}

type fakeMail struct {
	mu   sync.Mutex
	sent []*domain.MailMessage
	err  error
}

func (f *fakeMail) Publish(_ context.Context, msg *domain.MailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeOTP struct {
	mu    sync.Mutex
	codes map[string]string
}

func newFakeOTP() *fakeOTP {
	return &fakeOTP{codes: map[string]string{}}
}

func (f *fakeOTP) Set(_ context.Context, key, code string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.codes[key] = code
	return nil
}

func (f *fakeOTP) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	code, ok := f.codes[key]
	if !ok {
		return "", otp.ErrNotFound
	}
	return code, nil
}

func (f *fakeOTP) Del(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.codes, key)
	return nil
}
