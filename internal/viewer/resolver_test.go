package viewer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotesAPI 可控的笔记 API 替身
// gated 为真时每次检索先阻塞，等待 release 放行，用于构造乱序响应
type fakeNotesAPI struct {
	mu         sync.Mutex
	byIdentity map[string][]Note
	all        []Note
	listErr    error
	updateErr  error
	calls      []string
	gated      bool
	gates      map[string]chan struct{}
}

func newFakeNotesAPI() *fakeNotesAPI {
	return &fakeNotesAPI{
		byIdentity: map[string][]Note{},
		gates:      map[string]chan struct{}{},
	}
}

func (f *fakeNotesAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeNotesAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeNotesAPI) gateFor(call string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.gates[call]
	if !ok {
		ch = make(chan struct{})
		f.gates[call] = ch
	}
	return ch
}

func (f *fakeNotesAPI) wait(call string) {
	f.mu.Lock()
	gated := f.gated
	f.mu.Unlock()
	if gated {
		<-f.gateFor(call)
	}
}

// release 放行某个调用的响应
func (f *fakeNotesAPI) release(call string) {
	close(f.gateFor(call))
}

func (f *fakeNotesAPI) ListAllNotes(ctx context.Context) ([]Note, error) {
	f.record("all")
	f.wait("all")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Note(nil), f.all...), nil
}

func (f *fakeNotesAPI) ListNotesForRow(ctx context.Context, identity string) ([]Note, error) {
	f.record("row:" + identity)
	f.wait("row:" + identity)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Note(nil), f.byIdentity[identity]...), nil
}

func (f *fakeNotesAPI) UpdateNote(ctx context.Context, noteID int64, patch NotePatch) (*Note, error) {
	f.record("update")
	f.wait("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &Note{
		NoteID:   noteID,
		NoteText: patch.NoteText,
		Status:   patch.Status,
		Tags:     append([]string(nil), patch.Tags...),
	}, nil
}

func strPtr(s string) *string { return &s }

func TestIdentityOf(t *testing.T) {
	// 主键值优先于行ID
	row := &Row{RowID: 12, PrimaryKeyValue: strPtr("SKU-9")}
	assert.Equal(t, "SKU-9", IdentityOf(row))

	// 无主键回退到行ID的字符串形式
	assert.Equal(t, "12", IdentityOf(&Row{RowID: 12}))
	assert.Equal(t, "12", IdentityOf(&Row{RowID: 12, PrimaryKeyValue: strPtr("")}))
}

func TestResolverSelectRow(t *testing.T) {
	api := newFakeNotesAPI()
	api.byIdentity["SKU-9"] = []Note{{NoteID: 1, RowID: 12, NoteText: "first"}}
	store := NewNoteStore(api)
	resolver := NewResolver(store)

	row := &Row{RowID: 12, PrimaryKeyValue: strPtr("SKU-9")}
	require.NoError(t, resolver.SelectRow(context.Background(), row))

	active := resolver.ActiveIdentity()
	require.NotNil(t, active)
	assert.Equal(t, "SKU-9", *active)
	require.Len(t, store.Notes(), 1)
	assert.Equal(t, "first", store.Notes()[0].NoteText)
}

func TestResolverDuplicateSelectionNoFetch(t *testing.T) {
	api := newFakeNotesAPI()
	store := NewNoteStore(api)
	resolver := NewResolver(store)
	ctx := context.Background()

	// 无过滤时再次清除过滤不发起检索
	require.NoError(t, resolver.ClearFilter(ctx))
	assert.Equal(t, 0, api.callCount())

	row := &Row{RowID: 5}
	require.NoError(t, resolver.SelectRow(ctx, row))
	assert.Equal(t, 1, api.callCount())

	// 重复选中同一行不发起检索
	require.NoError(t, resolver.SelectRow(ctx, row))
	assert.Equal(t, 1, api.callCount())
}

func TestResolverClearFilter(t *testing.T) {
	api := newFakeNotesAPI()
	api.all = []Note{{NoteID: 1, RowID: 5}, {NoteID: 2, RowID: 7}}
	api.byIdentity["5"] = []Note{{NoteID: 1, RowID: 5}}
	store := NewNoteStore(api)
	resolver := NewResolver(store)
	ctx := context.Background()

	require.NoError(t, resolver.SelectRow(ctx, &Row{RowID: 5}))
	require.Len(t, store.Notes(), 1)

	require.NoError(t, resolver.ClearFilter(ctx))
	assert.Nil(t, resolver.ActiveIdentity())
	assert.Len(t, store.Notes(), 2)
}

func TestResolverStaleResponseDiscarded(t *testing.T) {
	api := newFakeNotesAPI()
	api.byIdentity["5"] = []Note{{NoteID: 1, RowID: 5, NoteText: "row five"}}
	api.byIdentity["7"] = []Note{{NoteID: 2, RowID: 7, NoteText: "row seven"}}
	api.gated = true
	store := NewNoteStore(api)
	resolver := NewResolver(store)
	ctx := context.Background()

	// 先选第 5 行，检索在途时立刻改选第 7 行
	first := make(chan struct{})
	go func() {
		defer close(first)
		resolver.SelectRow(ctx, &Row{RowID: 5})
	}()
	require.Eventually(t, func() bool { return api.callCount() == 1 }, time.Second, time.Millisecond)

	second := make(chan struct{})
	go func() {
		defer close(second)
		resolver.SelectRow(ctx, &Row{RowID: 7})
	}()
	require.Eventually(t, func() bool { return api.callCount() == 2 }, time.Second, time.Millisecond)

	// 第 7 行的响应先到，第 5 行的响应迟到
	api.release("row:7")
	<-second
	api.release("row:5")
	<-first

	// 迟到的第 5 行响应必须被丢弃，视图呈现最后一次选择
	active := resolver.ActiveIdentity()
	require.NotNil(t, active)
	assert.Equal(t, "7", *active)
	notes := store.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "row seven", notes[0].NoteText)
}

func TestResolverFailureEmptiesView(t *testing.T) {
	api := newFakeNotesAPI()
	api.byIdentity["5"] = []Note{{NoteID: 1, RowID: 5}}
	store := NewNoteStore(api)
	resolver := NewResolver(store)
	ctx := context.Background()

	require.NoError(t, resolver.SelectRow(ctx, &Row{RowID: 5}))
	require.Len(t, store.Notes(), 1)

	api.mu.Lock()
	api.listErr = errors.New("connection refused")
	api.mu.Unlock()

	err := resolver.SelectRow(ctx, &Row{RowID: 7})
	require.Error(t, err)

	// 失败时绝不保留旧数据
	assert.Empty(t, store.Notes())
	assert.Error(t, store.Err())
}

func TestResolverReselectAfterFailureRetries(t *testing.T) {
	api := newFakeNotesAPI()
	api.byIdentity["5"] = []Note{{NoteID: 1, RowID: 5, NoteText: "row five"}}
	store := NewNoteStore(api)
	resolver := NewResolver(store)
	ctx := context.Background()

	api.mu.Lock()
	api.listErr = errors.New("connection refused")
	api.mu.Unlock()

	row := &Row{RowID: 5}
	require.Error(t, resolver.SelectRow(ctx, row))
	assert.Equal(t, 1, api.callCount())
	assert.Empty(t, store.Notes())

	api.mu.Lock()
	api.listErr = nil
	api.mu.Unlock()

	// 失败后的重复选择是重试，不能被去抖吞掉
	require.NoError(t, resolver.SelectRow(ctx, row))
	assert.Equal(t, 2, api.callCount())
	require.Len(t, store.Notes(), 1)
	assert.Equal(t, "row five", store.Notes()[0].NoteText)
	require.NoError(t, store.Err())

	// 重试成功后恢复去抖
	require.NoError(t, resolver.SelectRow(ctx, row))
	assert.Equal(t, 2, api.callCount())
}

func TestResolverClearFilterRetriesAfterFailure(t *testing.T) {
	api := newFakeNotesAPI()
	api.all = []Note{{NoteID: 1, RowID: 5}}
	api.byIdentity["5"] = []Note{{NoteID: 1, RowID: 5}}
	store := NewNoteStore(api)
	resolver := NewResolver(store)
	ctx := context.Background()

	require.NoError(t, resolver.SelectRow(ctx, &Row{RowID: 5}))

	api.mu.Lock()
	api.listErr = errors.New("timeout")
	api.mu.Unlock()
	require.Error(t, resolver.ClearFilter(ctx))

	api.mu.Lock()
	api.listErr = nil
	api.mu.Unlock()

	require.NoError(t, resolver.ClearFilter(ctx))
	assert.Nil(t, resolver.ActiveIdentity())
	assert.Len(t, store.Notes(), 1)
}

func TestResolverNotesByRow(t *testing.T) {
	api := newFakeNotesAPI()
	api.all = []Note{
		{NoteID: 1, RowID: 5},
		{NoteID: 2, RowID: 7},
		{NoteID: 3, RowID: 5},
	}
	store := NewNoteStore(api)
	resolver := NewResolver(store)

	require.NoError(t, store.Refresh(context.Background(), nil))

	grouped := resolver.NotesByRow()
	assert.Len(t, grouped[5], 2)
	assert.Len(t, grouped[7], 1)
	assert.Empty(t, grouped[9])
}
