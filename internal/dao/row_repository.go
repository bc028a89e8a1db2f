package dao

import (
	"context"

	"github.com/haierkeys/csv-notes-service/internal/domain"
	"github.com/haierkeys/csv-notes-service/internal/model"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

// rowRepository 实现 domain.RowRepository 接口
type rowRepository struct {
	dao *Dao
}

// NewRowRepository 创建 RowRepository 实例
func NewRowRepository(dao *Dao) domain.RowRepository {
	return &rowRepository{dao: dao}
}

func (r *rowRepository) toDomain(m *model.CsvRow) *domain.CsvRow {
	if m == nil {
		return nil
	}
	return &domain.CsvRow{
		ID:               m.ID,
		PrimaryKeyValue:  m.PrimaryKeyValue,
		FirstImportID:    m.FirstImportID,
		LastSeenImportID: m.LastSeenImportID,
		IsOrphaned:       m.IsOrphaned,
	}
}

// GetByID 根据行ID获取行
func (r *rowRepository) GetByID(ctx context.Context, id int64) (*domain.CsvRow, error) {
	var m model.CsvRow
	if err := r.dao.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByPrimaryKey 根据主键值获取行
func (r *rowRepository) GetByPrimaryKey(ctx context.Context, pk string) (*domain.CsvRow, error) {
	var m model.CsvRow
	err := r.dao.db.WithContext(ctx).
		Where("primary_key_value = ?", pk).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// EnsureRow 按主键值取回或创建行
// pk 为空时无法建立跨导入身份，总是创建新行
func (r *rowRepository) EnsureRow(ctx context.Context, pk string, importID int64) (*domain.CsvRow, error) {
	db := r.dao.db.WithContext(ctx)

	if pk != "" {
		var existing model.CsvRow
		err := db.Where("primary_key_value = ?", pk).First(&existing).Error
		if err == nil {
			updates := map[string]interface{}{
				"last_seen_import_id": importID,
				"is_orphaned":         false,
			}
			if err := db.Model(&existing).Updates(updates).Error; err != nil {
				return nil, err
			}
			existing.LastSeenImportID = importID
			existing.IsOrphaned = false
			return r.toDomain(&existing), nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	m := &model.CsvRow{
		PrimaryKeyValue:  pk,
		FirstImportID:    importID,
		LastSeenImportID: importID,
	}
	if err := db.Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// CreateSnapshot 写入一行在某次导入下的数据快照
func (r *rowRepository) CreateSnapshot(ctx context.Context, snap *domain.RowSnapshot) error {
	dataJSON, err := sonic.MarshalString(snap.Data)
	if err != nil {
		return err
	}
	m := &model.CsvRowSnapshot{
		RowID:    snap.RowID,
		ImportID: snap.ImportID,
		Data:     dataJSON,
	}
	return r.dao.db.WithContext(ctx).Create(m).Error
}

// ListByImport 获取某次导入的行投影，按行ID升序
func (r *rowRepository) ListByImport(ctx context.Context, importID int64) ([]*domain.ProjectedRow, error) {
	var snaps []*model.CsvRowSnapshot
	err := r.dao.db.WithContext(ctx).
		Where("import_id = ?", importID).
		Order("row_id ASC").
		Find(&snaps).Error
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return []*domain.ProjectedRow{}, nil
	}

	rowIDs := make([]int64, 0, len(snaps))
	for _, s := range snaps {
		rowIDs = append(rowIDs, s.RowID)
	}

	var rows []*model.CsvRow
	if err := r.dao.db.WithContext(ctx).Where("id IN ?", rowIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	pkByRow := make(map[int64]string, len(rows))
	for _, row := range rows {
		pkByRow[row.ID] = row.PrimaryKeyValue
	}

	projected := make([]*domain.ProjectedRow, 0, len(snaps))
	for _, s := range snaps {
		data := map[string]string{}
		if s.Data != "" {
			if err := sonic.UnmarshalString(s.Data, &data); err != nil {
				return nil, err
			}
		}
		projected = append(projected, &domain.ProjectedRow{
			RowID:           s.RowID,
			PrimaryKeyValue: pkByRow[s.RowID],
			Data:            data,
		})
	}
	return projected, nil
}

// MarkOrphans 将携带主键但本次导入未出现的行标记为孤儿
func (r *rowRepository) MarkOrphans(ctx context.Context, importID int64, seenRowIDs []int64) error {
	db := r.dao.db.WithContext(ctx).
		Model(&model.CsvRow{}).
		Where("primary_key_value <> ''").
		Where("last_seen_import_id < ?", importID)
	if len(seenRowIDs) > 0 {
		db = db.Where("id NOT IN ?", seenRowIDs)
	}
	return db.Update("is_orphaned", true).Error
}
