// Package viewer 实现浏览器端查看器的客户端核心
// 包含服务端 API 客户端、笔记视图、行选择解析器与编辑会话
package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgcode "github.com/haierkeys/csv-notes-service/pkg/code"

	"github.com/bytedance/sonic"
)

// 服务端响应信封
// details 是服务端拼接好的单个字符串，缺失时不出现
type envelope struct {
	Code    int             `json:"code"`
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

// Import 导入记录
type Import struct {
	ImportID   int64   `json:"import_id"`
	Filename   string  `json:"filename"`
	RowCount   int     `json:"row_count"`
	PrimaryKey *string `json:"primary_key"`
	ImportedAt string  `json:"imported_at"`
}

// Row 行投影
type Row struct {
	RowID           int64             `json:"row_id"`
	PrimaryKeyValue *string           `json:"primary_key_value"`
	Data            map[string]string `json:"data"`
}

// RowTable 某次导入的行投影，columns 决定展示列与顺序
type RowTable struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Cells 按列清单顺序取一行的展示值
// 缺失列补空字符串，data 中多出的列不参与展示
func (t *RowTable) Cells(row *Row) []string {
	cells := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cells[i] = row.Data[col]
	}
	return cells
}

// Note 笔记
type Note struct {
	NoteID           int64    `json:"note_id"`
	RowID            int64    `json:"row_id"`
	PrimaryKeyValue  *string  `json:"primary_key_value"`
	NoteText         string   `json:"note_text"`
	Status           string   `json:"status"`
	Tags             []string `json:"tags"`
	CreatedTimestamp string   `json:"created_timestamp"`
	UpdatedTimestamp string   `json:"updated_timestamp"`
}

// WasEdited 判断笔记是否被编辑过
func (n *Note) WasEdited() bool {
	return n.CreatedTimestamp != n.UpdatedTimestamp
}

// NotePatch 更新笔记时整体替换的三个可变字段
type NotePatch struct {
	NoteText string   `json:"note_text"`
	Status   string   `json:"status"`
	Tags     []string `json:"tags"`
}

// TransportError 传输失败：网络错误或非成功状态码
type TransportError struct {
	StatusCode int
	Detail     string
}

func (e *TransportError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	// 响应体为空时的兜底消息
	return "request failed"
}

// ValidationError 更新被服务端拒绝，携带字段级错误
type ValidationError struct {
	Detail string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "validation failed"
}

// Client 服务端 API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption 客户端可选配置
type ClientOption func(*Client)

// WithHTTPClient 自定义底层 HTTP 客户端
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient 创建 API 客户端
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListImports 获取导入列表，服务端保证最近的在前，客户端不重排
func (c *Client) ListImports(ctx context.Context) ([]Import, error) {
	var out struct {
		Imports []Import `json:"imports"`
	}
	if err := c.get(ctx, "/api/v1/csv/imports", &out); err != nil {
		return nil, err
	}
	if out.Imports == nil {
		out.Imports = []Import{}
	}
	return out.Imports, nil
}

// ListRows 获取某次导入的行投影
func (c *Client) ListRows(ctx context.Context, importID int64) (*RowTable, error) {
	var out RowTable
	if err := c.get(ctx, fmt.Sprintf("/api/v1/csv/imports/%d/rows", importID), &out); err != nil {
		return nil, err
	}
	if out.Columns == nil {
		out.Columns = []string{}
	}
	if out.Rows == nil {
		out.Rows = []Row{}
	}
	return &out, nil
}

// ListAllNotes 获取全部笔记
func (c *Client) ListAllNotes(ctx context.Context) ([]Note, error) {
	var out struct {
		Notes []Note `json:"notes"`
	}
	if err := c.get(ctx, "/api/v1/notes", &out); err != nil {
		return nil, err
	}
	if out.Notes == nil {
		out.Notes = []Note{}
	}
	return out.Notes, nil
}

// ListNotesForRow 获取某个行身份下的笔记
// 身份不论是行ID还是主键值都原样 URL 转义
func (c *Client) ListNotesForRow(ctx context.Context, identity string) ([]Note, error) {
	var out struct {
		Notes []Note `json:"notes"`
	}
	if err := c.get(ctx, "/api/v1/notes/by-row/"+url.PathEscape(identity), &out); err != nil {
		return nil, err
	}
	if out.Notes == nil {
		out.Notes = []Note{}
	}
	return out.Notes, nil
}

// UpdateNote 整体替换笔记的三个可变字段
func (c *Client) UpdateNote(ctx context.Context, noteID int64, patch NotePatch) (*Note, error) {
	var out Note
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/notes/%d", noteID), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return &TransportError{Detail: "encode request: " + err.Error()}
		}
		reader = strings.NewReader(string(payload))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Detail: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Detail: err.Error()}
	}

	var env envelope
	envOK := sonic.Unmarshal(raw, &env) == nil

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.failureFrom(resp.StatusCode, &env, envOK)
	}
	if envOK && !env.Status {
		return c.failureFrom(resp.StatusCode, &env, true)
	}
	if !envOK {
		return &TransportError{StatusCode: resp.StatusCode, Detail: "malformed response body"}
	}

	if out != nil && len(env.Data) > 0 {
		if err := sonic.Unmarshal(env.Data, out); err != nil {
			return &TransportError{StatusCode: resp.StatusCode, Detail: "decode response: " + err.Error()}
		}
	}
	return nil
}

// failureFrom 将失败响应归类为传输失败或校验失败
// 信封消息作为可选的人类可读说明，缺失时使用兜底消息
func (c *Client) failureFrom(status int, env *envelope, envOK bool) error {
	detail := ""
	if envOK {
		detail = env.Message
		if env.Details != "" {
			detail = detail + ": " + env.Details
		}
	}

	if status == http.StatusBadRequest && envOK {
		verr := &ValidationError{Detail: detail, Fields: map[string]string{}}
		if field := fieldForCode(env.Code); field != "" {
			verr.Fields[field] = detail
		}
		// 参数绑定失败时信封 data 携带字段到错误的映射
		if len(env.Data) > 0 {
			var fields map[string]string
			if sonic.Unmarshal(env.Data, &fields) == nil {
				for k, v := range fields {
					verr.Fields[k] = v
				}
			}
		}
		return verr
	}

	return &TransportError{StatusCode: status, Detail: detail}
}

// fieldForCode 将服务端业务码映射到表单字段
func fieldForCode(code int) string {
	switch code {
	case pkgcode.ErrorNoteTextRequired.Code():
		return "note_text"
	case pkgcode.ErrorNoteStatusInvalid.Code():
		return "status"
	case pkgcode.ErrorNoteTagInvalid.Code():
		return "tags"
	}
	return ""
}
