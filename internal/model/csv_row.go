package model

const TableNameCsvRow = "csv_row"
const TableNameCsvRowSnapshot = "csv_row_snapshot"

// CsvRow mapped from table <csv_row>
// 主键值相同的行跨导入共享同一个行ID
type CsvRow struct {
	ID               int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	PrimaryKeyValue  string `gorm:"column:primary_key_value;index:idx_primary_key_value" json:"primaryKeyValue" form:"primaryKeyValue"`
	FirstImportID    int64  `gorm:"column:first_import_id;not null" json:"firstImportId" form:"firstImportId"`
	LastSeenImportID int64  `gorm:"column:last_seen_import_id;not null;index:idx_last_seen_import" json:"lastSeenImportId" form:"lastSeenImportId"`
	IsOrphaned       bool   `gorm:"column:is_orphaned;not null;default:false" json:"isOrphaned" form:"isOrphaned"`
}

// TableName CsvRow's table name
func (*CsvRow) TableName() string {
	return TableNameCsvRow
}

// CsvRowSnapshot mapped from table <csv_row_snapshot>
// Data 保存 JSON 编码的 列名 => 值 映射
type CsvRowSnapshot struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	RowID    int64  `gorm:"column:row_id;not null;index:idx_snapshot_row" json:"rowId" form:"rowId"`
	ImportID int64  `gorm:"column:import_id;not null;index:idx_snapshot_import" json:"importId" form:"importId"`
	Data     string `gorm:"column:data;not null" json:"data" form:"data"`
}

// TableName CsvRowSnapshot's table name
func (*CsvRowSnapshot) TableName() string {
	return TableNameCsvRowSnapshot
}
