// Package domain 定义领域模型和接口
package domain

import "time"

// DefaultPrimaryKeyColumn CSV 导入未声明主键列时的默认列名
const DefaultPrimaryKeyColumn = "ID"

// CsvImport CSV 导入记录领域模型
// 一次导入对应一个 CSV 文件及其元数据，创建后不可变
type CsvImport struct {
	ID               int64
	Filename         string
	RowCount         int
	PrimaryKeyColumn string
	Columns          []string
	ImportedAt       time.Time
}

// CsvRow CSV 行领域模型
// 行以主键值跨导入保持稳定身份；无主键值的行每次导入都是新行
type CsvRow struct {
	ID               int64
	PrimaryKeyValue  string
	FirstImportID    int64
	LastSeenImportID int64
	IsOrphaned       bool
}

// HasPrimaryKey 判断行是否携带主键值
func (r *CsvRow) HasPrimaryKey() bool {
	return r.PrimaryKeyValue != ""
}

// RowSnapshot 某次导入中一行的列数据快照
type RowSnapshot struct {
	ID       int64
	RowID    int64
	ImportID int64
	Data     map[string]string
}

// ProjectedRow 行投影结果：行身份加上该导入下的列数据
type ProjectedRow struct {
	RowID           int64
	PrimaryKeyValue string
	Data            map[string]string
}
