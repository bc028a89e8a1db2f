package domain

import (
	"context"
	"time"
)

// ImportRepository CSV 导入仓储接口
type ImportRepository interface {
	// Create 创建导入记录及其列清单
	Create(ctx context.Context, imp *CsvImport) (*CsvImport, error)

	// GetByID 根据ID获取导入记录（含列清单）
	GetByID(ctx context.Context, id int64) (*CsvImport, error)

	// List 获取全部导入记录，按导入时间倒序
	List(ctx context.Context) ([]*CsvImport, error)
}

// RowRepository CSV 行仓储接口
type RowRepository interface {
	// GetByID 根据行ID获取行
	GetByID(ctx context.Context, id int64) (*CsvRow, error)

	// GetByPrimaryKey 根据主键值获取行
	GetByPrimaryKey(ctx context.Context, pk string) (*CsvRow, error)

	// EnsureRow 按主键值取回或创建行；pk 为空时总是创建新行
	// 已存在的行会把 LastSeenImportID 推进到本次导入
	EnsureRow(ctx context.Context, pk string, importID int64) (*CsvRow, error)

	// CreateSnapshot 记录一行在某次导入下的列数据
	CreateSnapshot(ctx context.Context, snap *RowSnapshot) error

	// ListByImport 获取某次导入的行投影，按行ID升序
	ListByImport(ctx context.Context, importID int64) ([]*ProjectedRow, error)

	// MarkOrphans 将本次导入未出现的历史行标记为孤儿
	MarkOrphans(ctx context.Context, importID int64, seenRowIDs []int64) error
}

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetByID 根据ID获取笔记（排除已删除）
	GetByID(ctx context.Context, id int64) (*Note, error)

	// Create 创建笔记
	Create(ctx context.Context, note *Note) (*Note, error)

	// Update 整体替换笔记的文本、状态与标签，并推进更新时间
	Update(ctx context.Context, note *Note) (*Note, error)

	// ListAll 获取全部未删除笔记，按创建时间倒序
	ListAll(ctx context.Context) ([]*Note, error)

	// ListByRowID 获取某一行的全部未删除笔记，按创建时间倒序
	ListByRowID(ctx context.Context, rowID int64) ([]*Note, error)

	// PurgeDeleted 物理删除在指定时间之前软删除的笔记
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)
}
