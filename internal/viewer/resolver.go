package viewer

import (
	"context"
	"strconv"
	"sync"
)

// Resolver 把用户的行选择翻译成笔记过滤身份
// 每次检索携带发起时的序号标签，迟到的过期响应被直接丢弃
type Resolver struct {
	store *NoteStore

	mu sync.Mutex
	// active 当前过滤身份，settled 标记上次应用是否成功
	// 失败后重复应用同一身份仍会发起检索，作为重试路径
	active  *string
	settled bool
	seq     uint64
}

// NewResolver 创建选择解析器
func NewResolver(store *NoteStore) *Resolver {
	return &Resolver{store: store, settled: true}
}

// IdentityOf 计算一行的过滤身份
// 主键值非空时优先，否则回退到行ID的字符串形式
func IdentityOf(row *Row) string {
	if row.PrimaryKeyValue != nil && *row.PrimaryKeyValue != "" {
		return *row.PrimaryKeyValue
	}
	return strconv.FormatInt(row.RowID, 10)
}

// SelectRow 选中一行，应用其过滤身份
func (r *Resolver) SelectRow(ctx context.Context, row *Row) error {
	identity := IdentityOf(row)
	return r.apply(ctx, &identity)
}

// ClearFilter 清除过滤，视图回到全量检索
func (r *Resolver) ClearFilter(ctx context.Context) error {
	return r.apply(ctx, nil)
}

// ActiveIdentity 当前生效的过滤身份，nil 表示无过滤
func (r *Resolver) ActiveIdentity() *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return nil
	}
	v := *r.active
	return &v
}

// apply 应用新的过滤身份
// 与当前身份相同且上次应用成功时（包括 nil 对 nil）不发起检索
func (r *Resolver) apply(ctx context.Context, identity *string) error {
	r.mu.Lock()
	if r.settled && sameIdentity(r.active, identity) {
		r.mu.Unlock()
		return nil
	}

	if identity != nil {
		v := *identity
		r.active = &v
	} else {
		r.active = nil
	}
	r.seq++
	tag := r.seq
	r.mu.Unlock()

	var notes []Note
	var err error
	if identity != nil {
		notes, err = r.store.api.ListNotesForRow(ctx, *identity)
	} else {
		notes, err = r.store.api.ListAllNotes(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tag != r.seq {
		// 响应到达前过滤已被替换，丢弃
		return nil
	}
	r.store.setView(notes, err)
	r.settled = err == nil
	return err
}

// NotesByRow 把当前视图按行ID分组
// 带行过滤加载时视图只含该行的笔记，其余行计数为零，这是已知的展示限制
func (r *Resolver) NotesByRow() map[int64][]Note {
	grouped := make(map[int64][]Note)
	for _, n := range r.store.Notes() {
		grouped[n.RowID] = append(grouped[n.RowID], n)
	}
	return grouped
}

func sameIdentity(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
