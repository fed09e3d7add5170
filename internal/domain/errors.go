package domain

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error 是业务层的错误，Kind 决定返回给客户端的状态码，Message 可以直接展示给用户
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf 返回 err 链上第一个 *Error 的 Kind，没有时返回 KindUnknown
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

var (
	ErrEmailTaken         = newError(KindConflict, "该邮箱已被注册")
	ErrInvalidCredentials = newError(KindUnauthorized, "邮箱或密码错误")
	ErrUserNotFound       = newError(KindNotFound, "用户不存在")
	ErrWrongPassword      = newError(KindBadRequest, "旧密码错误")

	ErrMissingToken   = newError(KindUnauthorized, "用户未登录")
	ErrInvalidToken   = newError(KindUnauthorized, "无效的令牌")
	ErrIdentityGone   = newError(KindUnauthorized, "令牌对应的用户不存在")
	ErrRoleNotAllowed = newError(KindForbidden, "权限不足")

	ErrJobNotFound              = newError(KindNotFound, "职位不存在")
	ErrNotJobOwner              = newError(KindForbidden, "无权操作该职位")
	ErrCompanyProfileRequired   = newError(KindBadRequest, "公司资料不存在，请先创建公司资料")
	ErrCompanyProfileExists     = newError(KindConflict, "公司资料已存在")
	ErrCompanyProfileNotFound   = newError(KindNotFound, "公司资料不存在")
	ErrCandidateProfileExists   = newError(KindConflict, "求职者资料已存在")
	ErrCandidateProfileMissing  = newError(KindBadRequest, "求职者资料不存在，请先创建求职者资料")
	ErrCandidateProfileNotFound = newError(KindNotFound, "求职者资料不存在")
	ErrAlreadyApplied           = newError(KindConflict, "已经申请过该职位")

	ErrInvalidPagination  = newError(KindBadRequest, "分页参数必须为正整数")
	ErrInvalidSalaryRange = newError(KindBadRequest, "最低薪资不能高于最高薪资")
	ErrNegativeSalary     = newError(KindBadRequest, "薪资不能为负数")

	ErrEmailAlreadyVerified = newError(KindBadRequest, "邮箱已验证")
	ErrInvalidOTP           = newError(KindBadRequest, "验证码错误")
)
