package dao

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportArchiveRoundTrip(t *testing.T) {
	d := &Dao{}
	folder := filepath.Join(t.TempDir(), "i_1")

	require.NoError(t, d.SaveContentToFile(folder, "items.csv", []byte("ID,Name\n1,Alpha\n")))

	content, exists, err := d.LoadContentFromFile(folder, "items.csv")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "ID,Name\n1,Alpha\n", string(content))

	// 缺失的文件不是错误，exists 为 false
	_, exists, err = d.LoadContentFromFile(folder, "missing.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRemoveContentFolder(t *testing.T) {
	d := &Dao{}
	folder := filepath.Join(t.TempDir(), "i_2")
	require.NoError(t, d.SaveContentToFile(folder, "a.csv", []byte("x")))

	require.NoError(t, d.RemoveContentFolder(folder))
	_, err := os.Stat(folder)
	assert.True(t, os.IsNotExist(err))

	// 删除不存在的目录是无操作
	require.NoError(t, d.RemoveContentFolder(folder))
}

func TestGetImportArchivePath(t *testing.T) {
	d := &Dao{}
	assert.Equal(t, filepath.Join("storage", "imports", "i_42"), d.GetImportArchivePath(42))
}
