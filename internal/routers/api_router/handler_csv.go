package api_router

import (
	"bytes"
	"io"
	"net/http"

	"github.com/haierkeys/csv-notes-service/internal/app"
	"github.com/haierkeys/csv-notes-service/internal/dto"
	pkgapp "github.com/haierkeys/csv-notes-service/pkg/app"
	"github.com/haierkeys/csv-notes-service/pkg/code"
	"github.com/haierkeys/csv-notes-service/pkg/convert"
	apperrors "github.com/haierkeys/csv-notes-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CsvHandler CSV 导入 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type CsvHandler struct {
	*Handler
}

// NewCsvHandler 创建 CsvHandler 实例
func NewCsvHandler(a *app.App) *CsvHandler {
	return &CsvHandler{Handler: NewHandler(a)}
}

// Import 上传并导入 CSV 文件
// @Summary 导入 CSV
// @Description 上传 CSV 文件，首行作为列清单，pk 指定主键列（缺省 ID）
// @Tags CSV
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV 文件"
// @Param pk formData string false "主键列名"
// @Success 200 {object} pkgapp.Res{data=dto.ImportCreateResponse} "成功"
// @Router /api/v1/csv/import [post]
func (h *CsvHandler) Import(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	// 关闭过程中不再接受新导入，在途导入计入关闭等待
	if h.App.IsShuttingDown() {
		response.ToResponse(code.ErrorServerClosing)
		return
	}
	done := h.App.TrackOperation()
	defer done()

	params := &dto.ImportCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("CsvHandler.Import.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.Maps()))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("missing file field"))
		return
	}
	maxSize := h.App.Config().App.ImportMaxSize
	if maxSize > 0 && fileHeader.Size > maxSize {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logError(c, "CsvHandler.Import.Open", err)
		response.ToResponse(code.ErrorCSVParseFail.WithDetails(err.Error()))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		h.logError(c, "CsvHandler.Import.Read", err)
		response.ToResponse(code.ErrorCSVParseFail.WithDetails(err.Error()))
		return
	}

	result, err := h.App.CsvService.ImportCSV(c.Request.Context(), fileHeader.Filename, params.PK, bytes.NewReader(raw))
	if err != nil {
		h.logError(c, "CsvHandler.Import", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	// 归档原始 CSV，归档失败不影响导入结果
	archivePath := h.App.Dao.GetImportArchivePath(result.ImportID)
	if err := h.App.Dao.SaveContentToFile(archivePath, fileHeader.Filename, raw); err != nil {
		h.logError(c, "CsvHandler.Import.Archive", err)
		// 清理写了一半的归档目录，避免 raw 接口读到残缺内容
		if rmErr := h.App.Dao.RemoveContentFolder(archivePath); rmErr != nil {
			h.logError(c, "CsvHandler.Import.ArchiveCleanup", rmErr)
		}
	}

	response.ToResponse(code.Success.WithData(result))
}

// List 获取导入列表
// @Summary 导入列表
// @Description 获取全部 CSV 导入记录，最近的在前
// @Tags CSV
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.ImportListResponse} "成功"
// @Router /api/v1/csv/imports [get]
func (h *CsvHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	result, err := h.App.CsvService.ListImports(c.Request.Context())
	if err != nil {
		h.logError(c, "CsvHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// Rows 获取某次导入的行投影
// @Summary 行投影
// @Description 获取某次导入的列清单与全部行数据
// @Tags CSV
// @Produce json
// @Param import_id path int64 true "导入 ID"
// @Success 200 {object} pkgapp.Res{data=dto.RowListResponse} "成功"
// @Router /api/v1/csv/imports/{import_id}/rows [get]
func (h *CsvHandler) Rows(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	importID := convert.StrTo(c.Param("import_id")).MustInt64()
	if importID <= 0 {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("import_id must be a positive integer"))
		return
	}

	result, err := h.App.CsvService.ListRows(c.Request.Context(), importID)
	if err != nil {
		h.logError(c, "CsvHandler.Rows", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// Raw 下载某次导入归档的原始 CSV 文件
// @Summary 原始 CSV
// @Description 下载导入时归档的原始 CSV 文件
// @Tags CSV
// @Produce text/csv
// @Param import_id path int64 true "导入 ID"
// @Success 200 {string} string "CSV 内容"
// @Router /api/v1/csv/imports/{import_id}/raw [get]
func (h *CsvHandler) Raw(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	importID := convert.StrTo(c.Param("import_id")).MustInt64()
	if importID <= 0 {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("import_id must be a positive integer"))
		return
	}

	imp, err := h.App.CsvService.GetImport(c.Request.Context(), importID)
	if err != nil {
		h.logError(c, "CsvHandler.Raw", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	archivePath := h.App.Dao.GetImportArchivePath(imp.ImportID)
	content, exists, err := h.App.Dao.LoadContentFromFile(archivePath, imp.Filename)
	if err != nil {
		h.logError(c, "CsvHandler.Raw.Load", err)
		response.ToResponse(code.ErrorServerInternal.WithDetails(err.Error()))
		return
	}
	if !exists {
		response.ToResponse(code.ErrorImportNotFound.WithDetails("archive not found"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+imp.Filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", content)
}
