package domain

import "time"

// NoteStatus 笔记状态
type NoteStatus string

const (
	NoteStatusOpen       NoteStatus = "Open"
	NoteStatusInProgress NoteStatus = "In Progress"
	NoteStatusResolved   NoteStatus = "Resolved"
	NoteStatusClosed     NoteStatus = "Closed"
)

// DefaultNoteStatus 新建笔记的默认状态
const DefaultNoteStatus = NoteStatusOpen

// ValidNoteStatus 判断状态是否为四个枚举值之一
// 存量数据中的未知状态按原样保存，只有写入时才校验
func ValidNoteStatus(s string) bool {
	switch NoteStatus(s) {
	case NoteStatusOpen, NoteStatusInProgress, NoteStatusResolved, NoteStatusClosed:
		return true
	}
	return false
}

// NoteStatuses 返回全部合法状态值
func NoteStatuses() []string {
	return []string{
		string(NoteStatusOpen),
		string(NoteStatusInProgress),
		string(NoteStatusResolved),
		string(NoteStatusClosed),
	}
}

// Note 笔记领域模型
// 一条笔记在创建时绑定到一个行身份，之后不会被重新指派
type Note struct {
	ID              int64
	RowID           int64
	PrimaryKeyValue string
	Text            string
	Status          string
	Tags            []string
	IsDeleted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayStatus 返回用于展示的状态，未知或缺失时按 Open 处理
// 存储值不会被改写
func (n *Note) DisplayStatus() string {
	if ValidNoteStatus(n.Status) {
		return n.Status
	}
	return string(DefaultNoteStatus)
}

// WasEdited 判断笔记是否被编辑过（创建与更新时间不一致）
func (n *Note) WasEdited() bool {
	return !n.CreatedAt.Equal(n.UpdatedAt)
}
