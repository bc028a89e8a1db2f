package model

import "github.com/haierkeys/csv-notes-service/pkg/timex"

const TableNameNote = "note"
const TableNameTag = "tag"
const TableNameNoteTag = "note_tag"

// Note mapped from table <note>
type Note struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	RowID     int64      `gorm:"column:row_id;not null;index:idx_note_row" json:"rowId" form:"rowId"`
	NoteText  string     `gorm:"column:note_text;not null" json:"noteText" form:"noteText"`
	Status    string     `gorm:"column:status;not null;default:Open" json:"status" form:"status"`
	IsDeleted bool       `gorm:"column:is_deleted;not null;default:false;index:idx_note_deleted" json:"isDeleted" form:"isDeleted"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime" json:"updatedAt" form:"updatedAt"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}

// Tag mapped from table <tag>
type Tag struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Name      string     `gorm:"column:name;not null;uniqueIndex:idx_tag_name" json:"name" form:"name"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime" json:"createdAt" form:"createdAt"`
}

// TableName Tag's table name
func (*Tag) TableName() string {
	return TableNameTag
}

// NoteTag mapped from table <note_tag>
// 笔记与标签的多对多关联，Position 保持服务端标签顺序
type NoteTag struct {
	NoteID   int64 `gorm:"column:note_id;primaryKey" json:"noteId" form:"noteId"`
	TagID    int64 `gorm:"column:tag_id;primaryKey" json:"tagId" form:"tagId"`
	Position int   `gorm:"column:position;not null;default:0" json:"position" form:"position"`
}

// TableName NoteTag's table name
func (*NoteTag) TableName() string {
	return TableNameNoteTag
}
