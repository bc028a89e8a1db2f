// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/haierkeys/csv-notes-service/internal/domain"
	"github.com/haierkeys/csv-notes-service/internal/dto"
	"github.com/haierkeys/csv-notes-service/pkg/code"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {
	// Create 创建笔记并绑定到一个行身份
	Create(ctx context.Context, req *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// Get 根据ID获取笔记
	Get(ctx context.Context, noteID int64) (*dto.NoteDTO, error)

	// ListAll 获取全部笔记
	ListAll(ctx context.Context) (*dto.NoteListResponse, error)

	// ListByIdentity 获取某个行身份下的笔记
	// 身份先按主键值精确匹配，数字身份再回退到行ID
	ListByIdentity(ctx context.Context, identity string) (*dto.NoteListResponse, error)

	// Update 整体替换笔记的文本、状态与标签
	Update(ctx context.Context, noteID int64, req *dto.NoteUpdateRequest) (*dto.NoteDTO, error)
}

// noteService 实现 NoteService 接口
type noteService struct {
	notes  domain.NoteRepository
	rows   domain.RowRepository
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(notes domain.NoteRepository, rows domain.RowRepository, lg *zap.Logger) NoteService {
	return &noteService{
		notes:  notes,
		rows:   rows,
		sf:     &singleflight.Group{},
		logger: lg,
	}
}

// Create 创建笔记
// 行身份优先用 primary_key_value 解析，其次用 row_id
func (s *noteService) Create(ctx context.Context, req *dto.NoteCreateRequest) (*dto.NoteDTO, error) {
	text, status, tags, err := normalizeNoteFields(req.NoteText, req.Status, req.Tags)
	if err != nil {
		return nil, err
	}

	var row *domain.CsvRow
	if req.PrimaryKeyValue != "" {
		row, err = s.rows.GetByPrimaryKey(ctx, req.PrimaryKeyValue)
	} else {
		row, err = s.rows.GetByID(ctx, req.RowID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorRowNotFound
		}
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	created, err := s.notes.Create(ctx, &domain.Note{
		RowID:  row.ID,
		Text:   text,
		Status: status,
		Tags:   tags,
	})
	if err != nil {
		return nil, code.ErrorNoteCreateFail.WithDetails(err.Error())
	}
	return dto.NoteFromDomain(created), nil
}

// Get 根据ID获取笔记
func (s *noteService) Get(ctx context.Context, noteID int64) (*dto.NoteDTO, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	return dto.NoteFromDomain(note), nil
}

// ListAll 获取全部笔记
// 使用 Singleflight 合并并发的相同查询
func (s *noteService) ListAll(ctx context.Context) (*dto.NoteListResponse, error) {
	result, err, _ := s.sf.Do("notes_list_all", func() (interface{}, error) {
		notes, err := s.notes.ListAll(ctx)
		if err != nil {
			return nil, code.ErrorNoteListFail.WithDetails(err.Error())
		}
		return notes, nil
	})
	if err != nil {
		return nil, err
	}
	return s.toListResponse(result.([]*domain.Note)), nil
}

// ListByIdentity 获取某个行身份下的笔记
// 主键值精确匹配优先，数字身份回退到行ID，两者都未命中时返回空列表
func (s *noteService) ListByIdentity(ctx context.Context, identity string) (*dto.NoteListResponse, error) {
	result, err, _ := s.sf.Do("notes_list_row_"+identity, func() (interface{}, error) {
		rowID, ok, err := s.resolveIdentity(ctx, identity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []*domain.Note{}, nil
		}
		notes, err := s.notes.ListByRowID(ctx, rowID)
		if err != nil {
			return nil, code.ErrorNoteListFail.WithDetails(err.Error())
		}
		return notes, nil
	})
	if err != nil {
		return nil, err
	}
	return s.toListResponse(result.([]*domain.Note)), nil
}

// Update 整体替换笔记的文本、状态与标签
// 无版本校验，后写覆盖先写
func (s *noteService) Update(ctx context.Context, noteID int64, req *dto.NoteUpdateRequest) (*dto.NoteDTO, error) {
	text, status, tags, err := normalizeNoteFields(req.NoteText, req.Status, req.Tags)
	if err != nil {
		return nil, err
	}

	updated, err := s.notes.Update(ctx, &domain.Note{
		ID:     noteID,
		Text:   text,
		Status: status,
		Tags:   tags,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorNoteUpdateFail.WithDetails(err.Error())
	}

	s.logger.Info("note updated",
		zap.Int64("noteId", updated.ID),
		zap.Int64("rowId", updated.RowID))
	return dto.NoteFromDomain(updated), nil
}

// resolveIdentity 将行身份解析为行ID
// 返回 ok=false 表示身份未命中任何行
func (s *noteService) resolveIdentity(ctx context.Context, identity string) (int64, bool, error) {
	row, err := s.rows.GetByPrimaryKey(ctx, identity)
	if err == nil {
		return row.ID, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	rowID, convErr := strconv.ParseInt(identity, 10, 64)
	if convErr != nil {
		return 0, false, nil
	}
	return rowID, true, nil
}

func (s *noteService) toListResponse(notes []*domain.Note) *dto.NoteListResponse {
	items := make([]*dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		items = append(items, dto.NoteFromDomain(n))
	}
	return &dto.NoteListResponse{Notes: items}
}

// normalizeNoteFields 校验并规范化笔记的三个可变字段
// 文本去除首尾空白后必须非空，状态必须是四个枚举值之一
// 标签去重并保持提交顺序，空字符串标签直接拒绝
func normalizeNoteFields(text string, status string, tags []string) (string, string, []string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", "", nil, code.ErrorNoteTextRequired
	}

	if status == "" {
		status = string(domain.DefaultNoteStatus)
	}
	if !domain.ValidNoteStatus(status) {
		return "", "", nil, code.ErrorNoteStatusInvalid.WithDetails(
			"status must be one of: " + strings.Join(domain.NoteStatuses(), ", "))
	}

	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" {
			return "", "", nil, code.ErrorNoteTagInvalid
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	return trimmed, status, normalized, nil
}

// 确保 noteService 实现了 NoteService 接口
var _ NoteService = (*noteService)(nil)
