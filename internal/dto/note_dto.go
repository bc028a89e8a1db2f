// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/csv-notes-service/internal/domain"
	"github.com/haierkeys/csv-notes-service/pkg/timex"
)

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
// primary_key_value 为空时输出 null，与行身份规则保持一致
type NoteDTO struct {
	NoteID           int64      `json:"note_id" form:"note_id"`
	RowID            int64      `json:"row_id" form:"row_id"`
	PrimaryKeyValue  *string    `json:"primary_key_value" form:"primary_key_value"`
	NoteText         string     `json:"note_text" form:"note_text"`
	Status           string     `json:"status" form:"status"`
	Tags             []string   `json:"tags" form:"tags"`
	CreatedTimestamp timex.Time `json:"created_timestamp" form:"created_timestamp"`
	UpdatedTimestamp timex.Time `json:"updated_timestamp" form:"updated_timestamp"`
}

// NoteFromDomain 将领域笔记转换为 DTO
func NoteFromDomain(n *domain.Note) *NoteDTO {
	if n == nil {
		return nil
	}
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	var pk *string
	if n.PrimaryKeyValue != "" {
		v := n.PrimaryKeyValue
		pk = &v
	}
	return &NoteDTO{
		NoteID:           n.ID,
		RowID:            n.RowID,
		PrimaryKeyValue:  pk,
		NoteText:         n.Text,
		Status:           n.DisplayStatus(),
		Tags:             tags,
		CreatedTimestamp: timex.Time(n.CreatedAt),
		UpdatedTimestamp: timex.Time(n.UpdatedAt),
	}
}

// NoteListResponse Note list response body
// NoteListResponse 笔记列表响应
type NoteListResponse struct {
	Notes []*NoteDTO `json:"notes"`
}

// NoteCreateRequest Request parameters for creating a note
// 创建笔记的请求参数，行身份通过 row_id 或 primary_key_value 指定
type NoteCreateRequest struct {
	RowID           int64    `json:"row_id" form:"row_id"`
	PrimaryKeyValue string   `json:"primary_key_value" form:"primary_key_value"`
	NoteText        string   `json:"note_text" form:"note_text"`
	Status          string   `json:"status" form:"status"`
	Tags            []string `json:"tags" form:"tags"`
}

// NoteUpdateRequest Request parameters for updating a note
// 更新笔记的请求参数，三个可变字段整体替换
// 文本与状态的内容校验在服务层完成，以便返回字段级错误
type NoteUpdateRequest struct {
	NoteText string   `json:"note_text" form:"note_text"`
	Status   string   `json:"status" form:"status"`
	Tags     []string `json:"tags" form:"tags"`
}
