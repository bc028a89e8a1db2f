package global

import (
	"github.com/haierkeys/csv-notes-service/pkg/fileurl"
)

var (
	// ROOT 程序执行目录
	ROOT string
	// Name 应用名称
	Name string = "CSV Notes Service"
)

func init() {
	filename := fileurl.GetExePath()
	ROOT = filename + "/"
}
