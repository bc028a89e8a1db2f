package api_router

import (
	"github.com/haierkeys/csv-notes-service/internal/app"
	"github.com/haierkeys/csv-notes-service/internal/dto"
	pkgapp "github.com/haierkeys/csv-notes-service/pkg/app"
	"github.com/haierkeys/csv-notes-service/pkg/code"
	"github.com/haierkeys/csv-notes-service/pkg/convert"
	apperrors "github.com/haierkeys/csv-notes-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler 笔记 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// Create 创建笔记
// @Summary 创建笔记
// @Description 创建一条绑定到行身份的笔记，行身份通过 row_id 或 primary_key_value 指定
// @Tags 笔记
// @Accept json
// @Produce json
// @Param params body dto.NoteCreateRequest true "笔记参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Router /api/v1/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.Maps()))
		return
	}

	note, err := h.App.NoteService.Create(c.Request.Context(), params)
	if err != nil {
		h.logError(c, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// List 获取全部笔记
// @Summary 笔记列表
// @Description 获取全部笔记，最近创建的在前
// @Tags 笔记
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.NoteListResponse} "成功"
// @Router /api/v1/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	result, err := h.App.NoteService.ListAll(c.Request.Context())
	if err != nil {
		h.logError(c, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// ListByRow 获取某个行身份下的笔记
// @Summary 按行检索笔记
// @Description 身份先按主键值精确匹配，数字身份再回退到行ID
// @Tags 笔记
// @Produce json
// @Param identity path string true "行身份（主键值或行ID）"
// @Success 200 {object} pkgapp.Res{data=dto.NoteListResponse} "成功"
// @Router /api/v1/notes/by-row/{identity} [get]
func (h *NoteHandler) ListByRow(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	identity := c.Param("identity")
	if identity == "" {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("identity is required"))
		return
	}

	result, err := h.App.NoteService.ListByIdentity(c.Request.Context(), identity)
	if err != nil {
		h.logError(c, "NoteHandler.ListByRow", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// Update 更新笔记
// @Summary 更新笔记
// @Description 整体替换笔记的文本、状态与标签三个可变字段
// @Tags 笔记
// @Accept json
// @Produce json
// @Param note_id path int64 true "笔记 ID"
// @Param params body dto.NoteUpdateRequest true "笔记参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Router /api/v1/notes/{note_id} [patch]
func (h *NoteHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	noteID := convert.StrTo(c.Param("note_id")).MustInt64()
	if noteID <= 0 {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("note_id must be a positive integer"))
		return
	}

	params := &dto.NoteUpdateRequest{}
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Update.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.Maps()))
		return
	}

	note, err := h.App.NoteService.Update(c.Request.Context(), noteID, params)
	if err != nil {
		h.logError(c, "NoteHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}
