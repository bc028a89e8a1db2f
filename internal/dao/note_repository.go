package dao

import (
	"context"
	"time"

	"github.com/haierkeys/csv-notes-service/internal/domain"
	"github.com/haierkeys/csv-notes-service/internal/model"
	"github.com/haierkeys/csv-notes-service/pkg/convert"
	"github.com/haierkeys/csv-notes-service/pkg/timex"

	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

func (r *noteRepository) toDomain(m *model.Note, pk string, tags []string) *domain.Note {
	if m == nil {
		return nil
	}
	if tags == nil {
		tags = []string{}
	}
	// 同名字段由 StructAssign 复制，名称或类型不同的字段显式赋值
	n := convert.StructAssign(m, &domain.Note{}).(*domain.Note)
	n.PrimaryKeyValue = pk
	n.Text = m.NoteText
	n.Tags = tags
	n.CreatedAt = time.Time(m.CreatedAt)
	n.UpdatedAt = time.Time(m.UpdatedAt)
	return n
}

// GetByID 根据ID获取笔记，已删除的视为不存在
func (r *noteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	var m model.Note
	err := r.dao.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	tagsByNote, err := r.tagsFor(ctx, []int64{m.ID})
	if err != nil {
		return nil, err
	}
	pk, err := r.primaryKeyOf(ctx, m.RowID)
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m, pk, tagsByNote[m.ID]), nil
}

// Create 创建笔记，标签在同一事务内建立关联
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	now := timex.Now()
	m := &model.Note{
		RowID:     note.RowID,
		NoteText:  note.Text,
		Status:    note.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return r.replaceTags(tx, m.ID, note.Tags)
	})
	if err != nil {
		return nil, err
	}

	pk, err := r.primaryKeyOf(ctx, m.RowID)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m, pk, note.Tags), nil
}

// Update 整体替换文本、状态与标签，推进更新时间
// 创建时间与行绑定保持不变
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	var m model.Note
	err := r.dao.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", note.ID, false).
		First(&m).Error
	if err != nil {
		return nil, err
	}

	now := timex.Now()
	err = r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"note_text":  note.Text,
			"status":     note.Status,
			"updated_at": now,
		}
		if err := tx.Model(&model.Note{}).Where("id = ?", m.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", m.ID).Delete(&model.NoteTag{}).Error; err != nil {
			return err
		}
		return r.replaceTags(tx, m.ID, note.Tags)
	})
	if err != nil {
		return nil, err
	}

	m.NoteText = note.Text
	m.Status = note.Status
	m.UpdatedAt = now

	pk, err := r.primaryKeyOf(ctx, m.RowID)
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m, pk, note.Tags), nil
}

// ListAll 获取全部未删除笔记，按创建时间倒序
func (r *noteRepository) ListAll(ctx context.Context) ([]*domain.Note, error) {
	var ms []*model.Note
	err := r.dao.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC, id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.assemble(ctx, ms)
}

// ListByRowID 获取某一行的全部未删除笔记，按创建时间倒序
func (r *noteRepository) ListByRowID(ctx context.Context, rowID int64) ([]*domain.Note, error) {
	var ms []*model.Note
	err := r.dao.db.WithContext(ctx).
		Where("row_id = ? AND is_deleted = ?", rowID, false).
		Order("created_at DESC, id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.assemble(ctx, ms)
}

// PurgeDeleted 物理删除指定时间之前软删除的笔记及其标签关联
func (r *noteRepository) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	var purged int64
	err := r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		err := tx.Model(&model.Note{}).
			Where("is_deleted = ? AND updated_at < ?", true, timex.Time(before)).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("note_id IN ?", ids).Delete(&model.NoteTag{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&model.Note{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

// replaceTags 为笔记建立标签关联，标签按名称取回或创建
// Position 保持提交顺序
func (r *noteRepository) replaceTags(tx *gorm.DB, noteID int64, tags []string) error {
	for i, name := range tags {
		var tag model.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = model.Tag{Name: name, CreatedAt: timex.Now()}
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		link := &model.NoteTag{NoteID: noteID, TagID: tag.ID, Position: i}
		if err := tx.Create(link).Error; err != nil {
			return err
		}
	}
	return nil
}

// assemble 批量补齐笔记的标签与主键值
func (r *noteRepository) assemble(ctx context.Context, ms []*model.Note) ([]*domain.Note, error) {
	if len(ms) == 0 {
		return []*domain.Note{}, nil
	}

	noteIDs := make([]int64, 0, len(ms))
	rowIDs := make([]int64, 0, len(ms))
	for _, m := range ms {
		noteIDs = append(noteIDs, m.ID)
		rowIDs = append(rowIDs, m.RowID)
	}

	tagsByNote, err := r.tagsFor(ctx, noteIDs)
	if err != nil {
		return nil, err
	}

	var rows []*model.CsvRow
	if err := r.dao.db.WithContext(ctx).Where("id IN ?", rowIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	pkByRow := make(map[int64]string, len(rows))
	for _, row := range rows {
		pkByRow[row.ID] = row.PrimaryKeyValue
	}

	notes := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		notes = append(notes, r.toDomain(m, pkByRow[m.RowID], tagsByNote[m.ID]))
	}
	return notes, nil
}

// tagsFor 批量加载笔记标签，按 Position 升序
func (r *noteRepository) tagsFor(ctx context.Context, noteIDs []int64) (map[int64][]string, error) {
	type noteTagRow struct {
		NoteID int64
		Name   string
	}
	var links []noteTagRow
	err := r.dao.db.WithContext(ctx).
		Table(model.TableNameNoteTag+" AS nt").
		Select("nt.note_id AS note_id, t.name AS name").
		Joins("JOIN "+model.TableNameTag+" AS t ON t.id = nt.tag_id").
		Where("nt.note_id IN ?", noteIDs).
		Order("nt.note_id ASC, nt.position ASC").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	tagsByNote := make(map[int64][]string, len(noteIDs))
	for _, l := range links {
		tagsByNote[l.NoteID] = append(tagsByNote[l.NoteID], l.Name)
	}
	return tagsByNote, nil
}

func (r *noteRepository) primaryKeyOf(ctx context.Context, rowID int64) (string, error) {
	var row model.CsvRow
	err := r.dao.db.WithContext(ctx).Where("id = ?", rowID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return row.PrimaryKeyValue, nil
}
