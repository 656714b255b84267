package service

import "errors"

// 服务层错误分类，handler通过errors.Is翻译成HTTP响应：
// ErrNotFound→404，ErrValidation→400，ErrInvalidState→409，
// ErrConflict→409（瞬时，调用方可重试一次）。
var (
	ErrNotFound     = errors.New("record not found")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrConflict     = errors.New("concurrent update conflict")
)
