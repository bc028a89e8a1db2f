package code

import (
	"fmt"
	"net/http"
)

// Code 统一的业务状态码
// 包含状态码、成功标记、双语消息、可选数据与详情
type Code struct {
	// code 状态码
	code int
	// status 是否成功
	status bool
	// Lang 双语消息
	Lang lang
	// data 附加数据
	data interface{}
	// haveData 是否含有 Data
	haveData bool
	// details 错误详细信息
	details []string
	// haveDetails 是否含有详情
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers an error code; panics on duplicates
// NewError 注册错误码，重复时 panic
func NewError(code int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()
	return &Code{code: code, status: false, Lang: l}
}

// NewSuss registers a success code; panics on duplicates
// NewSuss 注册成功码，重复时 panic
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()
	return &Code{code: code, status: true, Lang: l}
}

// Clone 创建一个新的 Code 副本，避免并发请求间共享 data/details
func (e *Code) Clone() *Code {
	return &Code{
		code:   e.code,
		status: e.status,
		Lang:   e.Lang,
	}
}

func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Msgf(args ...interface{}) string {
	return fmt.Sprintf(e.Msg(), args...)
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// WithData 在副本上附加数据并返回
func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

// WithDetails 在副本上附加详情并返回
func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

// StatusCode maps a business code to its HTTP status
// StatusCode 将业务状态码映射为 HTTP 状态码
func (e *Code) StatusCode() int {
	switch e.code {
	case Success.code, Failed.code:
		return http.StatusOK
	case ErrorInvalidParams.code, ErrorNoteTextRequired.code,
		ErrorNoteStatusInvalid.code, ErrorNoteTagInvalid.code,
		ErrorCSVParseFail.code, ErrorCSVEmptyFile.code:
		return http.StatusBadRequest
	case ErrorNotFoundAPI.code, ErrorImportNotFound.code,
		ErrorRowNotFound.code, ErrorNoteNotFound.code:
		return http.StatusNotFound
	case ErrorTooManyRequests.code:
		return http.StatusTooManyRequests
	case ErrorServerClosing.code:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
