package task

import (
	"context"
	"time"

	"github.com/haierkeys/csv-notes-service/internal/domain"

	"go.uber.org/zap"
)

// NotePurgeTask 物理清理软删除超过保留期的笔记
type NotePurgeTask struct {
	notes     domain.NoteRepository
	retention time.Duration
	cronSpec  string
	logger    *zap.Logger
}

// NewNotePurgeTask 创建笔记清理任务
func NewNotePurgeTask(notes domain.NoteRepository, retention time.Duration, cronSpec string, lg *zap.Logger) *NotePurgeTask {
	return &NotePurgeTask{
		notes:     notes,
		retention: retention,
		cronSpec:  cronSpec,
		logger:    lg,
	}
}

// Name 任务名称
func (t *NotePurgeTask) Name() string {
	return "note_purge"
}

// CronSpec cron 表达式
func (t *NotePurgeTask) CronSpec() string {
	return t.cronSpec
}

// IsStartupRun 启动时执行一次，清理停机期间积压的数据
func (t *NotePurgeTask) IsStartupRun() bool {
	return true
}

// Run 执行清理
func (t *NotePurgeTask) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-t.retention)

	purged, err := t.notes.PurgeDeleted(ctx, cutoff)
	if err != nil {
		return err
	}

	if purged > 0 {
		t.logger.Info("purged soft-deleted notes",
			zap.Int64("count", purged),
			zap.Time("cutoff", cutoff))
	}

	return nil
}
