package viewer

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// SessionState 编辑会话状态
type SessionState int

const (
	// StateClosed 无进行中的编辑
	StateClosed SessionState = iota
	// StateOpen 编辑中，暂存值可反复修改
	StateOpen
	// StateSubmitting 提交中，拒绝第二次提交
	StateSubmitting
)

// 会话状态错误
var (
	ErrSessionAlreadyOpen = errors.New("an edit session is already open")
	ErrSessionNotOpen     = errors.New("no open edit session")
	ErrSubmitInFlight     = errors.New("a submit is already in flight")
)

// noteStatuses 合法的笔记状态
var noteStatuses = []string{"Open", "In Progress", "Resolved", "Closed"}

// FieldErrors 字段级校验错误
type FieldErrors map[string]string

// EditSession 单条笔记的编辑会话
// 同一时刻至多一个会话处于打开状态
type EditSession struct {
	store *NoteStore

	mu     sync.Mutex
	state  SessionState
	note   Note
	staged NotePatch
	epoch  uint64
}

// NewEditSession 创建编辑会话
func NewEditSession(store *NoteStore) *EditSession {
	return &EditSession{store: store}
}

// State 当前会话状态
func (s *EditSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open 打开会话，暂存值从笔记当前内容播种
// 状态缺失或未知时按 Open 处理
func (s *EditSession) Open(note Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateClosed {
		return ErrSessionAlreadyOpen
	}

	status := note.Status
	if !validStatus(status) {
		status = "Open"
	}
	tags := make([]string, len(note.Tags))
	copy(tags, note.Tags)

	s.note = note
	s.staged = NotePatch{
		NoteText: note.NoteText,
		Status:   status,
		Tags:     tags,
	}
	s.state = StateOpen
	return nil
}

// StageText 暂存文本编辑，只改暂存副本
func (s *EditSession) StageText(text string) error {
	return s.stage(func() { s.staged.NoteText = text })
}

// StageStatus 暂存状态编辑
func (s *EditSession) StageStatus(status string) error {
	return s.stage(func() { s.staged.Status = status })
}

// StageTags 暂存标签编辑
func (s *EditSession) StageTags(tags []string) error {
	cp := make([]string, len(tags))
	copy(cp, tags)
	return s.stage(func() { s.staged.Tags = cp })
}

func (s *EditSession) stage(apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return ErrSessionNotOpen
	}
	apply()
	return nil
}

// Staged 当前暂存值的副本
func (s *EditSession) Staged() NotePatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := make([]string, len(s.staged.Tags))
	copy(tags, s.staged.Tags)
	return NotePatch{
		NoteText: s.staged.NoteText,
		Status:   s.staged.Status,
		Tags:     tags,
	}
}

// Validate 校验暂存值
// 文本去除首尾空白后必须非空，状态必须是四个枚举值之一
// 校验失败不触碰服务端，会话保持打开
func (s *EditSession) Validate() FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return validatePatch(&s.staged)
}

func validatePatch(p *NotePatch) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(p.NoteText) == "" {
		errs["note_text"] = "note text must not be empty"
	}
	if !validStatus(p.Status) {
		errs["status"] = "status must be one of: " + strings.Join(noteStatuses, ", ")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit 提交暂存值
// 成功时返回的笔记替换视图中的同ID条目，会话关闭
// 失败时会话回到打开状态，暂存值原样保留，不自动重试
func (s *EditSession) Submit(ctx context.Context) (*Note, error) {
	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return nil, ErrSessionNotOpen
	case StateSubmitting:
		// 只允许一个在途提交，后来的直接拒绝而不是排队
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}

	if errs := validatePatch(&s.staged); errs != nil {
		s.mu.Unlock()
		return nil, &ValidationError{Detail: "staged edits failed validation", Fields: errs}
	}

	s.state = StateSubmitting
	noteID := s.note.NoteID
	patch := s.staged
	epoch := s.epoch
	s.mu.Unlock()

	updated, err := s.store.UpdateNote(ctx, noteID, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		// 等待期间会话被关闭，结果不得再改动任何状态
		return nil, ErrSessionNotOpen
	}
	if err != nil {
		s.state = StateOpen
		return nil, err
	}

	s.store.ReplaceNote(*updated)
	s.state = StateClosed
	return updated, nil
}

// Cancel 放弃暂存编辑并关闭会话，视图不受影响
func (s *EditSession) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return ErrSessionNotOpen
	}
	s.state = StateClosed
	s.staged = NotePatch{}
	s.epoch++
	return nil
}

func validStatus(status string) bool {
	for _, s := range noteStatuses {
		if s == status {
			return true
		}
	}
	return false
}
