package api

import (
	"fmt"

	"github.com/pkg/errors"
)

type apiError interface {
	Error() string
	Code() int
	Message() string
}

type baseError struct {
	Err  error
	Msg  string
	Code int
}

func (x *baseError) Message() string {
	if x.Msg != "" {
		return x.Msg
	}
	return x.Err.Error()
}

func (x *baseError) cause() string {
	if x.Err == nil {
		return ""
	}
	return "\n" + x.Err.Error()
}

type userError struct{ baseError }

func (x *userError) Error() string { return "UserError: " + x.Message() + x.cause() }
func (x *userError) Code() int {
	if x.baseError.Code > 0 {
		return x.baseError.Code
	}
	return 400
}

func wrapUserError(err error, code int, msg string) apiError {
	return &userError{
		baseError: baseError{
			Err:  errors.Wrap(err, msg),
			Code: code,
		},
	}
}

func newUserErrorf(code int, msg string, args ...interface{}) apiError {
	return &userError{
		baseError: baseError{
			Msg:  fmt.Sprintf(msg, args...),
			Code: code,
		},
	}
}

type systemError struct{ baseError }

func (x *systemError) Error() string { return "SystemError: " + x.Message() + x.cause() }
func (x *systemError) Code() int {
	if x.baseError.Code > 0 {
		return x.baseError.Code
	}
	return 500
}

func wrapSystemError(err error, code int, msg string) apiError {
	return &systemError{
		baseError: baseError{
			Err:  errors.Wrap(err, msg),
			Msg:  msg,
			Code: code,
		},
	}
}
