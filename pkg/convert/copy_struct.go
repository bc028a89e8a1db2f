package convert

import (
	"github.com/jinzhu/copier"
)

// StructAssign copies same-named fields from source to target and returns target
// StructAssign 将 source 中同名字段复制到 target，返回 target
// 用于 model / domain / dto 之间的结构体转换
func StructAssign(source interface{}, target interface{}) interface{} {
	_ = copier.CopyWithOption(target, source, copier.Option{IgnoreEmpty: false, DeepCopy: true})
	return target
}
