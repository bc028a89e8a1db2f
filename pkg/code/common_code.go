package code

// 通用状态码
var (
	Success = NewSuss(0, lang{"Success", "成功"})
	Failed  = NewError(1, lang{"Failed", "失败"})

	ErrorServerInternal  = NewError(100000, lang{"Internal server error", "服务内部错误"})
	ErrorInvalidParams   = NewError(100001, lang{"Invalid request parameters", "入参错误"})
	ErrorNotFoundAPI     = NewError(100002, lang{"API not found", "找不到对应接口"})
	ErrorTooManyRequests = NewError(100003, lang{"Too many requests", "请求过多"})
	ErrorDBQueryFail     = NewError(100004, lang{"Database query failed", "数据库查询失败"})
	ErrorServerClosing   = NewError(100005, lang{"Server is shutting down", "服务正在关闭"})
)

// CSV 导入相关状态码
var (
	ErrorImportNotFound  = NewError(200101, lang{"CSV import not found", "CSV 导入记录不存在"})
	ErrorImportListFail  = NewError(200102, lang{"Failed to list CSV imports", "获取 CSV 导入列表失败"})
	ErrorCSVParseFail    = NewError(200103, lang{"Failed to parse CSV file", "CSV 文件解析失败"})
	ErrorCSVEmptyFile    = NewError(200104, lang{"CSV file is empty", "CSV 文件为空"})
	ErrorImportSaveFail  = NewError(200105, lang{"Failed to save CSV import", "保存 CSV 导入失败"})
	ErrorRowNotFound     = NewError(200201, lang{"CSV row not found", "CSV 行不存在"})
	ErrorRowListFail     = NewError(200202, lang{"Failed to list CSV rows", "获取 CSV 行数据失败"})
)

// 笔记相关状态码
var (
	ErrorNoteNotFound      = NewError(200301, lang{"Note not found", "笔记不存在"})
	ErrorNoteListFail      = NewError(200302, lang{"Failed to list notes", "获取笔记列表失败"})
	ErrorNoteCreateFail    = NewError(200303, lang{"Failed to create note", "创建笔记失败"})
	ErrorNoteUpdateFail    = NewError(200304, lang{"Failed to update note", "更新笔记失败"})
	ErrorNoteTextRequired  = NewError(200305, lang{"Note text must not be empty", "笔记内容不能为空"})
	ErrorNoteStatusInvalid = NewError(200306, lang{"Note status is not a valid value", "笔记状态值无效"})
	ErrorNoteTagInvalid    = NewError(200307, lang{"Note tags must be non-empty and unique", "笔记标签不能为空且不能重复"})
)
