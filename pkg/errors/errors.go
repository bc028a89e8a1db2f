// Package errors 将服务层错误落到统一响应信封
package errors

import (
	"errors"

	pkgapp "github.com/haierkeys/csv-notes-service/pkg/app"
	"github.com/haierkeys/csv-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// AsCode 从错误链中提取业务状态码
// 非业务错误退化为服务内部错误，原始消息放入详情
func AsCode(err error) *code.Code {
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr
	}
	return code.ErrorServerInternal.WithDetails(err.Error())
}

// ErrorResponse 统一错误响应处理
// 失败与成功共用同一个响应信封，HTTP 状态由业务码映射
func ErrorResponse(c *gin.Context, err error) {
	pkgapp.NewResponse(c).ToResponse(AsCode(err))
}
