package utils

import "github.com/sysu-ecnc-dev/job-board/backend/internal/domain"

// ValidateSalaryRange 只在两端都存在时比较大小，任意一端都可以为空
func ValidateSalaryRange(lo, hi *int) error {
	if (lo != nil && *lo < 0) || (hi != nil && *hi < 0) {
		return domain.ErrNegativeSalary
	}
	if lo != nil && hi != nil && *lo > *hi {
		return domain.ErrInvalidSalaryRange
	}
	return nil
}
