package task

import (
	"context"

	"github.com/haierkeys/csv-notes-service/internal/app"
	"github.com/haierkeys/csv-notes-service/pkg/safe_close"

	"go.uber.org/zap"
)

// Manager 任务管理器,负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	app       *app.App
}

// NewManager 创建任务管理器
func NewManager(appContainer *app.App, logger *zap.Logger, sc *safe_close.SafeClose) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		logger:    logger,
		app:       appContainer,
	}
}

// RegisterTasks 注册所有任务
func (m *Manager) RegisterTasks() error {
	cfg := m.app.Config()

	// 软删除笔记清理任务
	purgeTask := NewNotePurgeTask(
		m.app.NoteRepo,
		cfg.GetSoftDeleteRetention(),
		cfg.Schedule.PurgeDeletedNotes,
		m.logger,
	)
	m.scheduler.AddTask(purgeTask)

	return nil
}

// Start 启动所有已注册的任务
// 任务上下文在应用容器开始关闭时取消，长任务据此尽快退出
func (m *Manager) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-m.app.ShutdownCh()
		cancel()
	}()
	return m.scheduler.Start(ctx)
}
