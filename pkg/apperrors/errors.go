// Package apperrors 提供應用程式的錯誤分類
package apperrors

import (
	"errors"
	"fmt"
)

// 定義錯誤碼
const (
	// CodeNotFound 資源未找到
	CodeNotFound = "NOT_FOUND"
	// CodeConflict 狀態衝突（滿員、重複入座等）
	CodeConflict = "CONFLICT"
	// CodeDisbanded 對已解散的房間操作
	CodeDisbanded = "DISBANDED"
	// CodeForbidden 權限不足
	CodeForbidden = "FORBIDDEN"
	// CodeOther 其他錯誤
	CodeOther = "OTHER_ERROR"
)

// AppError 應用程式錯誤
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 實現 error 介面
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 實現 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 實現 errors.Is，以錯誤碼比對
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New 創建新的應用程式錯誤
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包裝錯誤
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 預定義錯誤
var (
	// ErrUserNotFound 使用者不存在（token 無效）
	ErrUserNotFound = New(CodeNotFound, "user not found")

	// ErrRoomNotFound 房間不存在
	ErrRoomNotFound = New(CodeNotFound, "room not found")

	// ErrMemberNotFound 呼叫者不在房間內
	ErrMemberNotFound = New(CodeNotFound, "member not found in room")

	// ErrAlreadySeated 使用者已在其他房間中
	ErrAlreadySeated = New(CodeConflict, "user already seated in a room")

	// ErrRoomDisbanded 房間已解散
	ErrRoomDisbanded = New(CodeDisbanded, "room already disbanded")

	// ErrNotHost 只有房主可以執行此操作
	ErrNotHost = New(CodeForbidden, "only the host may do this")
)

// IsNotFound 檢查是否為未找到錯誤
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsConflict 檢查是否為狀態衝突錯誤
func IsConflict(err error) bool {
	return hasCode(err, CodeConflict)
}

// IsDisbanded 檢查是否為房間已解散錯誤
func IsDisbanded(err error) bool {
	return hasCode(err, CodeDisbanded)
}

// IsForbidden 檢查是否為權限不足錯誤
func IsForbidden(err error) bool {
	return hasCode(err, CodeForbidden)
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
