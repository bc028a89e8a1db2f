package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldImportID CSV 导入 ID 字段
	FieldImportID = "importId"

	// FieldRowID CSV 行 ID 字段
	FieldRowID = "rowId"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldIdentity 行过滤标识字段（主键值或行 ID）
	FieldIdentity = "identity"

	// FieldFilename 文件名字段
	FieldFilename = "filename"

	// FieldRowCount 行数字段
	FieldRowCount = "rowCount"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"
)
