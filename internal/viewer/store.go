package viewer

import (
	"context"
)

// NotesAPI 笔记检索与更新接口，由 Client 实现
type NotesAPI interface {
	// ListAllNotes 获取全部笔记
	ListAllNotes(ctx context.Context) ([]Note, error)

	// ListNotesForRow 获取某个行身份下的笔记
	ListNotesForRow(ctx context.Context, identity string) ([]Note, error)

	// UpdateNote 整体替换笔记的三个可变字段
	UpdateNote(ctx context.Context, noteID int64, patch NotePatch) (*Note, error)
}

// NoteStore 当前展示的笔记视图
// 检索模式是硬分支：有行过滤时按行检索，否则全量检索
// 全量集合可能很大，服务端分流是必须保留的设计
type NoteStore struct {
	api   NotesAPI
	notes []Note
	err   error
}

// NewNoteStore 创建笔记视图
func NewNoteStore(api NotesAPI) *NoteStore {
	return &NoteStore{
		api:   api,
		notes: []Note{},
	}
}

// Refresh 重新加载视图
// identity 非空时按行检索，nil 时全量检索
// 失败时视图回落为空列表并记录错误，绝不保留旧的或部分的数据
func (s *NoteStore) Refresh(ctx context.Context, identity *string) error {
	var notes []Note
	var err error

	if identity != nil {
		notes, err = s.api.ListNotesForRow(ctx, *identity)
	} else {
		notes, err = s.api.ListAllNotes(ctx)
	}

	if err != nil {
		s.notes = []Note{}
		s.err = err
		return err
	}

	if notes == nil {
		notes = []Note{}
	}
	s.notes = notes
	s.err = nil
	return nil
}

// Notes 当前视图中的笔记
func (s *NoteStore) Notes() []Note {
	return s.notes
}

// Err 最近一次加载的错误，成功后清空
func (s *NoteStore) Err() error {
	return s.err
}

// ReplaceNote 用更新后的笔记替换视图中的同ID条目
// 视图中不存在该ID时不做任何事
func (s *NoteStore) ReplaceNote(updated Note) {
	for i, n := range s.notes {
		if n.NoteID == updated.NoteID {
			s.notes[i] = updated
			return
		}
	}
}

// UpdateNote 提交更新
func (s *NoteStore) UpdateNote(ctx context.Context, noteID int64, patch NotePatch) (*Note, error) {
	return s.api.UpdateNote(ctx, noteID, patch)
}

// setView 由解析器在完成一次带标签的检索后写入视图
func (s *NoteStore) setView(notes []Note, err error) {
	if err != nil {
		s.notes = []Note{}
		s.err = err
		return
	}
	if notes == nil {
		notes = []Note{}
	}
	s.notes = notes
	s.err = nil
}
