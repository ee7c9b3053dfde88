package response

import (
	"net/http"
)

type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

// 业务错误分类：NotFound/Forbidden/Conflict/BadRequest
// Code 同时作为对外的稳定错误码返回
func NotFound(msg string) *BizError {
	return NewError(http.StatusNotFound, msg)
}

func Forbidden(msg string) *BizError {
	return NewError(http.StatusForbidden, msg)
}

func Conflict(msg string) *BizError {
	return NewError(http.StatusConflict, msg)
}

func BadRequest(msg string) *BizError {
	return NewError(http.StatusBadRequest, msg)
}
