package service

import "errors"

// 服务层的错误种类。api 层负责将它们翻译成 HTTP 状态码，
// 服务内部只做包装（%w），不做重试。
var (
	// ErrForbidden 表示调用者权限不足，或试图改动受保护的 admin 角色。
	ErrForbidden = errors.New("forbidden")
	// ErrValidation 表示缺少必填字段或输入非法。
	ErrValidation = errors.New("validation failed")
	// ErrConflict 表示唯一键冲突，例如重复的角色名。
	ErrConflict = errors.New("already exists")
	// ErrNotFound 表示引用的角色、分类、文章或账户不存在。
	ErrNotFound = errors.New("not found")
	// ErrCycle 表示分类树的改动会产生环。
	ErrCycle = errors.New("category hierarchy would become cyclic")
	// ErrInvalidOtp 表示验证码不匹配、不存在或已被使用过。
	ErrInvalidOtp = errors.New("invalid otp")
	// ErrExpiredOtp 表示验证码已过期。
	ErrExpiredOtp = errors.New("otp expired")
)
