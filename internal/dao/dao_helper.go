package dao

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/haierkeys/csv-notes-service/pkg/fileurl"
)

// GetImportArchivePath 获取某次导入的原始 CSV 归档目录
func (d *Dao) GetImportArchivePath(importID int64) string {
	return filepath.Join("storage", "imports", fmt.Sprintf("i_%d", importID))
}

// SaveContentToFile 保存内容到文件
func (d *Dao) SaveContentToFile(folderPath string, fileName string, content []byte) error {
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return err
	}
	filePath := filepath.Join(folderPath, fileName)
	return os.WriteFile(filePath, content, 0644)
}

// LoadContentFromFile 从文件加载内容
// 返回值: 内容, 是否存在, 错误
func (d *Dao) LoadContentFromFile(folderPath string, fileName string) ([]byte, bool, error) {
	filePath := filepath.Join(folderPath, fileName)
	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return content, true, nil
}

// RemoveContentFolder 删除内容文件夹
func (d *Dao) RemoveContentFolder(folderPath string) error {
	if fileurl.IsExist(folderPath) {
		return os.RemoveAll(folderPath)
	}
	return nil
}
