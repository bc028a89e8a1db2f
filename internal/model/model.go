// Package model 定义数据模型
package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 迁移全部业务表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		CsvImport{},
		CsvImportSchema{},
		CsvRow{},
		CsvRowSnapshot{},
		Note{},
		Tag{},
		NoteTag{},
	)
}
