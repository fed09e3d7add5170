package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

func ptr(n int) *int { return &n }

func TestValidateSalaryRange(t *testing.T) {
	tests := []struct {
		name string
		lo   *int
		hi   *int
		want error
	}{
		{name: "both empty"},
		{name: "only min", lo: ptr(1000)},
		{name: "only max", hi: ptr(1000)},
		{name: "equal", lo: ptr(1000), hi: ptr(1000)},
		{name: "ordered", lo: ptr(1000), hi: ptr(2000)},
		{name: "inverted", lo: ptr(3000), hi: ptr(2000), want: domain.ErrInvalidSalaryRange},
		{name: "negative min", lo: ptr(-1), want: domain.ErrNegativeSalary},
		{name: "negative max", lo: ptr(0), hi: ptr(-5), want: domain.ErrNegativeSalary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSalaryRange(tt.lo, tt.hi)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
		})
	}
}

func TestGenerateEmailLocalPart(t *testing.T) {
	got := GenerateEmailLocalPart("张伟")
	assert.Regexp(t, regexp.MustCompile(`^zhangwei[0-9]{2,4}$`), got)
}

func TestGenerateRandomOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.Regexp(t, `^[0-9]{6}$`, GenerateRandomOTP())
	}
}

func TestGenerateRandomCompanyProfile(t *testing.T) {
	p := GenerateRandomCompanyProfile("u-1")
	assert.Equal(t, "u-1", p.UserID)
	assert.NotEmpty(t, p.CompanyName)
	assert.Regexp(t, `^https://www\.[a-z0-9-]+\.com$`, p.Website)
}

func TestGenerateRandomJobHasValidSalary(t *testing.T) {
	for i := 0; i < 50; i++ {
		job := GenerateRandomJob("c-1")
		assert.Equal(t, "c-1", job.CompanyID)
		assert.NoError(t, ValidateSalaryRange(job.SalaryMin, job.SalaryMax))
	}
}
