package viewer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteStoreRefreshBranches(t *testing.T) {
	api := newFakeNotesAPI()
	api.all = []Note{{NoteID: 1, RowID: 5}, {NoteID: 2, RowID: 7}}
	api.byIdentity["SKU-9"] = []Note{{NoteID: 3, RowID: 9}}
	store := NewNoteStore(api)
	ctx := context.Background()

	// 无过滤走全量检索
	require.NoError(t, store.Refresh(ctx, nil))
	assert.Len(t, store.Notes(), 2)
	assert.Equal(t, []string{"all"}, api.calls)

	// 有过滤走按行检索，绝不在客户端过滤全量集合
	require.NoError(t, store.Refresh(ctx, strPtr("SKU-9")))
	assert.Len(t, store.Notes(), 1)
	assert.Equal(t, []string{"all", "row:SKU-9"}, api.calls)
}

func TestNoteStoreRefreshFailure(t *testing.T) {
	api := newFakeNotesAPI()
	api.all = []Note{{NoteID: 1, RowID: 5}}
	store := NewNoteStore(api)
	ctx := context.Background()

	require.NoError(t, store.Refresh(ctx, nil))
	require.Len(t, store.Notes(), 1)

	api.mu.Lock()
	api.listErr = errors.New("timeout")
	api.mu.Unlock()

	require.Error(t, store.Refresh(ctx, nil))
	assert.Empty(t, store.Notes())
	assert.Error(t, store.Err())

	// 下一次成功加载清除错误
	api.mu.Lock()
	api.listErr = nil
	api.mu.Unlock()
	require.NoError(t, store.Refresh(ctx, nil))
	assert.NoError(t, store.Err())
	assert.Len(t, store.Notes(), 1)
}

func TestNoteStoreReplaceNote(t *testing.T) {
	store := NewNoteStore(newFakeNotesAPI())
	store.setView([]Note{{NoteID: 1, NoteText: "a"}, {NoteID: 2, NoteText: "b"}}, nil)

	store.ReplaceNote(Note{NoteID: 2, NoteText: "b2"})
	assert.Equal(t, "b2", store.Notes()[1].NoteText)

	// 视图中不存在的ID不做任何事
	store.ReplaceNote(Note{NoteID: 99, NoteText: "zz"})
	assert.Len(t, store.Notes(), 2)
}
