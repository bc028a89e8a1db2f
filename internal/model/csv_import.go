package model

import "github.com/haierkeys/csv-notes-service/pkg/timex"

const TableNameCsvImport = "csv_import"
const TableNameCsvImportSchema = "csv_import_schema"

// CsvImport mapped from table <csv_import>
type CsvImport struct {
	ID               int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Filename         string     `gorm:"column:filename;not null" json:"filename" form:"filename"`
	RowCount         int        `gorm:"column:row_count;not null;default:0" json:"rowCount" form:"rowCount"`
	PrimaryKeyColumn string     `gorm:"column:primary_key_column;not null;default:ID" json:"primaryKeyColumn" form:"primaryKeyColumn"`
	ImportedAt       timex.Time `gorm:"column:imported_at;type:datetime;index:idx_imported_at" json:"importedAt" form:"importedAt"`
}

// TableName CsvImport's table name
func (*CsvImport) TableName() string {
	return TableNameCsvImport
}

// CsvImportSchema mapped from table <csv_import_schema>
// Columns 保存 JSON 编码的有序列名清单
type CsvImportSchema struct {
	ImportID int64  `gorm:"column:import_id;primaryKey" json:"importId" form:"importId"`
	Columns  string `gorm:"column:columns;not null" json:"columns" form:"columns"`
}

// TableName CsvImportSchema's table name
func (*CsvImportSchema) TableName() string {
	return TableNameCsvImportSchema
}
