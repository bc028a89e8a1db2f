package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"time"

	"github.com/haierkeys/csv-notes-service/internal/domain"
	"github.com/haierkeys/csv-notes-service/internal/dto"
	"github.com/haierkeys/csv-notes-service/pkg/code"
	"github.com/haierkeys/csv-notes-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CsvService 定义 CSV 导入业务服务接口
type CsvService interface {
	// ImportCSV 解析并落库一份 CSV 文件
	ImportCSV(ctx context.Context, filename string, pkColumn string, r io.Reader) (*dto.ImportCreateResponse, error)

	// GetImport 根据ID获取单条导入记录
	GetImport(ctx context.Context, importID int64) (*dto.ImportDTO, error)

	// ListImports 获取全部导入记录，最近的在前
	ListImports(ctx context.Context) (*dto.ImportListResponse, error)

	// ListRows 获取某次导入的行投影
	ListRows(ctx context.Context, importID int64) (*dto.RowListResponse, error)
}

// csvService 实现 CsvService 接口
type csvService struct {
	imports domain.ImportRepository
	rows    domain.RowRepository
	logger  *zap.Logger
}

// NewCsvService 创建 CsvService 实例
func NewCsvService(imports domain.ImportRepository, rows domain.RowRepository, lg *zap.Logger) CsvService {
	return &csvService{
		imports: imports,
		rows:    rows,
		logger:  lg,
	}
}

// ImportCSV 解析并落库一份 CSV 文件
// 首行是列清单，pkColumn 指定主键列，缺省为 ID
// 主键列不在列清单中时，本次导入的行不携带主键值
func (s *csvService) ImportCSV(ctx context.Context, filename string, pkColumn string, r io.Reader) (*dto.ImportCreateResponse, error) {
	start := time.Now()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, code.ErrorCSVParseFail.WithDetails(err.Error())
	}
	if len(records) == 0 {
		return nil, code.ErrorCSVEmptyFile
	}

	columns := records[0]
	dataRows := records[1:]

	if pkColumn == "" {
		pkColumn = domain.DefaultPrimaryKeyColumn
	}
	pkIndex := -1
	for i, col := range columns {
		if col == pkColumn {
			pkIndex = i
			break
		}
	}
	if pkIndex < 0 {
		pkColumn = ""
	}

	imp, err := s.imports.Create(ctx, &domain.CsvImport{
		Filename:         filename,
		RowCount:         len(dataRows),
		PrimaryKeyColumn: pkColumn,
		Columns:          columns,
	})
	if err != nil {
		return nil, code.ErrorImportSaveFail.WithDetails(err.Error())
	}

	seenRowIDs := make([]int64, 0, len(dataRows))
	for _, record := range dataRows {
		pk := ""
		if pkIndex >= 0 && pkIndex < len(record) {
			pk = record[pkIndex]
		}

		row, err := s.rows.EnsureRow(ctx, pk, imp.ID)
		if err != nil {
			return nil, code.ErrorImportSaveFail.WithDetails(err.Error())
		}
		seenRowIDs = append(seenRowIDs, row.ID)

		// 缺失值按空白补齐，多余的列忽略
		data := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				data[col] = record[i]
			} else {
				data[col] = ""
			}
		}
		err = s.rows.CreateSnapshot(ctx, &domain.RowSnapshot{
			RowID:    row.ID,
			ImportID: imp.ID,
			Data:     data,
		})
		if err != nil {
			return nil, code.ErrorImportSaveFail.WithDetails(err.Error())
		}
	}

	if err := s.rows.MarkOrphans(ctx, imp.ID, seenRowIDs); err != nil {
		return nil, code.ErrorImportSaveFail.WithDetails(err.Error())
	}

	s.logger.Info("csv imported",
		zap.Int64(logger.FieldImportID, imp.ID),
		zap.String(logger.FieldFilename, filename),
		zap.Int(logger.FieldRowCount, len(dataRows)),
		zap.Duration(logger.FieldDuration, time.Since(start)))

	return &dto.ImportCreateResponse{
		ImportID: imp.ID,
		Filename: imp.Filename,
		RowCount: imp.RowCount,
	}, nil
}

// GetImport 根据ID获取单条导入记录
func (s *csvService) GetImport(ctx context.Context, importID int64) (*dto.ImportDTO, error) {
	imp, err := s.imports.GetByID(ctx, importID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorImportNotFound
		}
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	return dto.ImportFromDomain(imp), nil
}

// ListImports 获取全部导入记录
func (s *csvService) ListImports(ctx context.Context) (*dto.ImportListResponse, error) {
	imports, err := s.imports.List(ctx)
	if err != nil {
		return nil, code.ErrorImportListFail.WithDetails(err.Error())
	}
	items := make([]*dto.ImportDTO, 0, len(imports))
	for _, imp := range imports {
		items = append(items, dto.ImportFromDomain(imp))
	}
	return &dto.ImportListResponse{Imports: items}, nil
}

// ListRows 获取某次导入的行投影
// columns 来自导入时的列清单，决定展示顺序
func (s *csvService) ListRows(ctx context.Context, importID int64) (*dto.RowListResponse, error) {
	imp, err := s.imports.GetByID(ctx, importID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorImportNotFound
		}
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	projected, err := s.rows.ListByImport(ctx, importID)
	if err != nil {
		return nil, code.ErrorRowListFail.WithDetails(err.Error())
	}

	rows := make([]*dto.RowDTO, 0, len(projected))
	for _, row := range projected {
		rows = append(rows, dto.RowFromDomain(row))
	}

	columns := imp.Columns
	if columns == nil {
		columns = []string{}
	}
	return &dto.RowListResponse{
		Columns: columns,
		Rows:    rows,
	}, nil
}

// 确保 csvService 实现了 CsvService 接口
var _ CsvService = (*csvService)(nil)
