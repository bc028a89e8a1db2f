package dto

import (
	"github.com/haierkeys/csv-notes-service/internal/domain"
	"github.com/haierkeys/csv-notes-service/pkg/timex"
)

// ImportDTO CSV import data transfer object
// ImportDTO CSV 导入数据传输对象
type ImportDTO struct {
	ImportID   int64      `json:"import_id" form:"import_id"`
	Filename   string     `json:"filename" form:"filename"`
	RowCount   int        `json:"row_count" form:"row_count"`
	PrimaryKey *string    `json:"primary_key" form:"primary_key"`
	ImportedAt timex.Time `json:"imported_at" form:"imported_at"`
}

// ImportFromDomain 将领域导入记录转换为 DTO
func ImportFromDomain(imp *domain.CsvImport) *ImportDTO {
	if imp == nil {
		return nil
	}
	var pk *string
	if imp.PrimaryKeyColumn != "" {
		v := imp.PrimaryKeyColumn
		pk = &v
	}
	return &ImportDTO{
		ImportID:   imp.ID,
		Filename:   imp.Filename,
		RowCount:   imp.RowCount,
		PrimaryKey: pk,
		ImportedAt: timex.Time(imp.ImportedAt),
	}
}

// ImportCreateRequest Form parameters accompanying a CSV upload
// 上传 CSV 时附带的表单参数，pk 指定主键列，缺省为 ID
type ImportCreateRequest struct {
	PK string `json:"pk" form:"pk"`
}

// ImportCreateResponse Response body after a successful import
// 导入成功后的响应
type ImportCreateResponse struct {
	ImportID int64  `json:"import_id"`
	Filename string `json:"filename"`
	RowCount int    `json:"row_count"`
}

// ImportListResponse Import list response body
// 导入列表响应，最近的在前
type ImportListResponse struct {
	Imports []*ImportDTO `json:"imports"`
}

// RowDTO Row projection data transfer object
// RowDTO 行投影数据传输对象
type RowDTO struct {
	RowID           int64             `json:"row_id" form:"row_id"`
	PrimaryKeyValue *string           `json:"primary_key_value" form:"primary_key_value"`
	Data            map[string]string `json:"data" form:"data"`
}

// RowFromDomain 将行投影转换为 DTO
func RowFromDomain(row *domain.ProjectedRow) *RowDTO {
	if row == nil {
		return nil
	}
	var pk *string
	if row.PrimaryKeyValue != "" {
		v := row.PrimaryKeyValue
		pk = &v
	}
	data := row.Data
	if data == nil {
		data = map[string]string{}
	}
	return &RowDTO{
		RowID:           row.RowID,
		PrimaryKeyValue: pk,
		Data:            data,
	}
}

// RowListResponse Row projection response body
// 行投影响应，columns 决定列集合与展示顺序
type RowListResponse struct {
	Columns []string  `json:"columns"`
	Rows    []*RowDTO `json:"rows"`
}
