package viewer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openedSession(t *testing.T, api *fakeNotesAPI, note Note) (*EditSession, *NoteStore) {
	t.Helper()
	store := NewNoteStore(api)
	store.setView([]Note{note}, nil)
	session := NewEditSession(store)
	require.NoError(t, session.Open(note))
	return session, store
}

func TestSessionOpenSeedsStagedValues(t *testing.T) {
	note := Note{NoteID: 1, NoteText: "hello", Status: "Resolved", Tags: []string{"a", "b"}}
	session, _ := openedSession(t, newFakeNotesAPI(), note)

	staged := session.Staged()
	assert.Equal(t, "hello", staged.NoteText)
	assert.Equal(t, "Resolved", staged.Status)
	assert.Equal(t, []string{"a", "b"}, staged.Tags)
	assert.Equal(t, StateOpen, session.State())

	// 重复打开被拒绝
	assert.ErrorIs(t, session.Open(note), ErrSessionAlreadyOpen)
}

func TestSessionOpenNormalizesUnknownStatus(t *testing.T) {
	note := Note{NoteID: 1, NoteText: "x", Status: "archived"}
	session, _ := openedSession(t, newFakeNotesAPI(), note)

	assert.Equal(t, "Open", session.Staged().Status)
}

func TestSessionStageBeforeOpen(t *testing.T) {
	session := NewEditSession(NewNoteStore(newFakeNotesAPI()))

	assert.ErrorIs(t, session.StageText("x"), ErrSessionNotOpen)
	assert.ErrorIs(t, session.StageStatus("Open"), ErrSessionNotOpen)
	assert.ErrorIs(t, session.StageTags(nil), ErrSessionNotOpen)
	assert.ErrorIs(t, session.Cancel(), ErrSessionNotOpen)

	_, err := session.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSessionNotOpen)
}

func TestSessionStagingDoesNotTouchView(t *testing.T) {
	note := Note{NoteID: 1, NoteText: "original", Status: "Open"}
	session, store := openedSession(t, newFakeNotesAPI(), note)

	require.NoError(t, session.StageText("edited"))
	require.NoError(t, session.StageStatus("Closed"))
	require.NoError(t, session.StageTags([]string{"urgent"}))

	// 暂存只改副本，视图保持原值
	assert.Equal(t, "original", store.Notes()[0].NoteText)
	staged := session.Staged()
	assert.Equal(t, "edited", staged.NoteText)
	assert.Equal(t, "Closed", staged.Status)
}

func TestSessionValidation(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		status    string
		wantField string
	}{
		{"empty text", "", "Open", "note_text"},
		{"whitespace text", "   \t ", "Open", "note_text"},
		{"unknown status", "fine", "Finished", "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeNotesAPI()
			note := Note{NoteID: 1, NoteText: "fine", Status: "Open"}
			session, _ := openedSession(t, api, note)

			require.NoError(t, session.StageText(tt.text))
			// StageStatus 不做校验，非法值留给 Validate 与 Submit 拦截
			require.NoError(t, session.StageStatus(tt.status))

			errs := session.Validate()
			require.NotNil(t, errs)
			assert.Contains(t, errs, tt.wantField)

			_, err := session.Submit(context.Background())
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)

			// 校验失败不触碰服务端，会话保持打开，暂存值原样保留
			assert.Equal(t, 0, api.callCount())
			assert.Equal(t, StateOpen, session.State())
			assert.Equal(t, tt.text, session.Staged().NoteText)
		})
	}
}

func TestSessionSubmitSuccess(t *testing.T) {
	api := newFakeNotesAPI()
	note := Note{NoteID: 1, NoteText: "before", Status: "Open"}
	session, store := openedSession(t, api, note)

	require.NoError(t, session.StageText("after"))
	require.NoError(t, session.StageStatus("Resolved"))

	updated, err := session.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "after", updated.NoteText)

	// 成功后同ID条目被替换，会话关闭
	assert.Equal(t, "after", store.Notes()[0].NoteText)
	assert.Equal(t, "Resolved", store.Notes()[0].Status)
	assert.Equal(t, StateClosed, session.State())
}

func TestSessionSubmitFailureKeepsStagedEdits(t *testing.T) {
	api := newFakeNotesAPI()
	api.updateErr = errors.New("connection reset")
	note := Note{NoteID: 1, NoteText: "before", Status: "Open"}
	session, store := openedSession(t, api, note)

	require.NoError(t, session.StageText("after"))

	_, err := session.Submit(context.Background())
	require.Error(t, err)

	// 失败后会话回到打开状态，暂存编辑不丢，不自动重试
	assert.Equal(t, StateOpen, session.State())
	assert.Equal(t, "after", session.Staged().NoteText)
	assert.Equal(t, "before", store.Notes()[0].NoteText)
	assert.Equal(t, 1, api.callCount())
}

func TestSessionSecondSubmitRejectedWhileInFlight(t *testing.T) {
	api := newFakeNotesAPI()
	api.gated = true
	note := Note{NoteID: 1, NoteText: "text", Status: "Open"}
	session, _ := openedSession(t, api, note)

	done := make(chan struct{})
	go func() {
		defer close(done)
		session.Submit(context.Background())
	}()
	require.Eventually(t, func() bool { return session.State() == StateSubmitting }, time.Second, time.Millisecond)

	_, err := session.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	api.release("update")
	<-done
	assert.Equal(t, StateClosed, session.State())
}

func TestSessionCancelDuringSubmitDiscardsResult(t *testing.T) {
	api := newFakeNotesAPI()
	api.gated = true
	note := Note{NoteID: 1, NoteText: "before", Status: "Open"}
	session, store := openedSession(t, api, note)

	require.NoError(t, session.StageText("after"))

	result := make(chan error, 1)
	go func() {
		_, err := session.Submit(context.Background())
		result <- err
	}()
	require.Eventually(t, func() bool { return session.State() == StateSubmitting }, time.Second, time.Millisecond)

	require.NoError(t, session.Cancel())
	assert.Equal(t, StateClosed, session.State())

	api.release("update")
	err := <-result

	// 迟到的提交结果被丢弃，视图与会话状态都不受影响
	assert.ErrorIs(t, err, ErrSessionNotOpen)
	assert.Equal(t, StateClosed, session.State())
	assert.Equal(t, "before", store.Notes()[0].NoteText)
}

func TestSessionCancelDiscardsStagedEdits(t *testing.T) {
	note := Note{NoteID: 1, NoteText: "keep", Status: "Open"}
	session, store := openedSession(t, newFakeNotesAPI(), note)

	require.NoError(t, session.StageText("discard me"))
	require.NoError(t, session.Cancel())

	assert.Equal(t, StateClosed, session.State())
	assert.Equal(t, "keep", store.Notes()[0].NoteText)

	// 取消后可重新打开，暂存值重新从笔记播种
	require.NoError(t, session.Open(note))
	assert.Equal(t, "keep", session.Staged().NoteText)
}
