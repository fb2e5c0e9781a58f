package web

import (
	"errors"

	"github.com/curtisnewbie/misotime/errs"
	"github.com/sirupsen/logrus"
)

const (
	ErrCodeGeneric  = "XXXX"
	ErrCodeNotFound = "NOT_FOUND"
)

// Web Endpoint's Resp
type Resp struct {
	ErrorCode string `json:"errorCode"`
	Msg       string `json:"msg"`
	Error     bool   `json:"error"`
	Data      any    `json:"data"`
}

// Generic version of Resp
type GnResp[T any] struct {
	ErrorCode string `json:"errorCode"`
	Msg       string `json:"msg"`
	Error     bool   `json:"error"`
	Data      T      `json:"data"`
}

// Wrap with a response object
func WrapResp(data any, e error) Resp {
	if e != nil {
		var me *errs.Err
		if errors.As(e, &me) && me.HasCode() {
			logrus.Infof("Returned error, code: '%v', msg: '%v', internalMsg: '%v'", me.Code(), me.Msg(), me.InternalMsg())
			return ErrorRespWCode(me.Code(), me.Msg())
		}

		// not a coded error, just return some generic msg
		logrus.Errorf("Unknown error, %v", e)
		return ErrorResp("Unknown system error, please try again later")
	}

	if v, ok := data.(Resp); ok {
		return v
	}
	return OkRespWData(data)
}

// Build error Resp
func ErrorResp(msg string) Resp {
	return ErrorRespWCode(ErrCodeGeneric, msg)
}

// Build error Resp
func ErrorRespWCode(code string, msg string) Resp {
	return Resp{
		ErrorCode: code,
		Msg:       msg,
		Error:     true,
	}
}

// Build OK Resp with data
func OkRespWData(data any) Resp {
	return Resp{
		Data: data,
	}
}
