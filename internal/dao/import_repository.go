package dao

import (
	"context"
	"time"

	"github.com/haierkeys/csv-notes-service/internal/domain"
	"github.com/haierkeys/csv-notes-service/internal/model"
	"github.com/haierkeys/csv-notes-service/pkg/convert"
	"github.com/haierkeys/csv-notes-service/pkg/timex"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

// importRepository 实现 domain.ImportRepository 接口
type importRepository struct {
	dao *Dao
}

// NewImportRepository 创建 ImportRepository 实例
func NewImportRepository(dao *Dao) domain.ImportRepository {
	return &importRepository{dao: dao}
}

func (r *importRepository) toDomain(m *model.CsvImport, columns []string) *domain.CsvImport {
	if m == nil {
		return nil
	}
	imp := convert.StructAssign(m, &domain.CsvImport{}).(*domain.CsvImport)
	imp.Columns = columns
	imp.ImportedAt = time.Time(m.ImportedAt)
	return imp
}

// Create 在一个事务中写入导入记录与列清单
func (r *importRepository) Create(ctx context.Context, imp *domain.CsvImport) (*domain.CsvImport, error) {
	m := &model.CsvImport{
		Filename:         imp.Filename,
		RowCount:         imp.RowCount,
		PrimaryKeyColumn: imp.PrimaryKeyColumn,
		ImportedAt:       timex.Time(imp.ImportedAt),
	}
	if m.ImportedAt.IsZero() {
		m.ImportedAt = timex.Now()
	}

	columnsJSON, err := sonic.MarshalString(imp.Columns)
	if err != nil {
		return nil, err
	}

	err = r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		schema := &model.CsvImportSchema{
			ImportID: m.ID,
			Columns:  columnsJSON,
		}
		return tx.Create(schema).Error
	})
	if err != nil {
		return nil, err
	}

	return r.toDomain(m, imp.Columns), nil
}

// GetByID 根据ID获取导入记录与列清单
func (r *importRepository) GetByID(ctx context.Context, id int64) (*domain.CsvImport, error) {
	var m model.CsvImport
	if err := r.dao.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	columns, err := r.columnsOf(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m, columns), nil
}

// List 获取全部导入记录，最近的在前
func (r *importRepository) List(ctx context.Context) ([]*domain.CsvImport, error) {
	var ms []*model.CsvImport
	err := r.dao.db.WithContext(ctx).
		Order("imported_at DESC, id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	imports := make([]*domain.CsvImport, 0, len(ms))
	for _, m := range ms {
		// 列表场景不需要列清单，按需加载
		imports = append(imports, r.toDomain(m, nil))
	}
	return imports, nil
}

func (r *importRepository) columnsOf(ctx context.Context, importID int64) ([]string, error) {
	var schema model.CsvImportSchema
	err := r.dao.db.WithContext(ctx).Where("import_id = ?", importID).First(&schema).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	var columns []string
	if err := sonic.UnmarshalString(schema.Columns, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}
