package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/csv-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 失败响应必须和成功响应共用同一个信封结构
// details 是拼接好的单个字符串
type resEnvelope struct {
	Code    int    `json:"code"`
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, resEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/fail", func(c *gin.Context) {
		ErrorResponse(c, err)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	var env resEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestErrorResponseBusinessCode(t *testing.T) {
	w, env := serveError(t, code.ErrorNoteStatusInvalid.WithDetails("status must be one of: Open, Resolved"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, code.ErrorNoteStatusInvalid.Code(), env.Code)
	assert.False(t, env.Status)
	assert.Equal(t, code.ErrorNoteStatusInvalid.Msg(), env.Message)
	assert.Contains(t, env.Details, "status must be one of")
}

func TestErrorResponseNotFoundCode(t *testing.T) {
	w, env := serveError(t, code.ErrorNoteNotFound)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, code.ErrorNoteNotFound.Code(), env.Code)
	assert.False(t, env.Status)
}

func TestErrorResponseUnknownError(t *testing.T) {
	w, env := serveError(t, stderrors.New("connection reset"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, code.ErrorServerInternal.Code(), env.Code)
	assert.Contains(t, env.Details, "connection reset")
}

func TestAsCode(t *testing.T) {
	assert.Same(t, code.ErrorNoteNotFound, AsCode(code.ErrorNoteNotFound))

	got := AsCode(stderrors.New("boom"))
	assert.Equal(t, code.ErrorServerInternal.Code(), got.Code())
	assert.Equal(t, []string{"boom"}, got.Details())
}
