// Package task 提供后台定时任务调度
package task

import (
	"context"

	"github.com/haierkeys/csv-notes-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	CronSpec() string              // cron 表达式，空字符串表示不定时执行
	IsStartupRun() bool            // 是否在启动时立即执行一次
}

// Scheduler 任务调度器，基于 cron 表达式触发
type Scheduler struct {
	logger  *zap.Logger
	tasks   []Task
	cron    *cron.Cron
	sc      *safe_close.SafeClose
	baseCtx context.Context
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger:  logger,
		tasks:   make([]Task, 0),
		cron:    cron.New(),
		sc:      sc,
		baseCtx: context.Background(),
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start 启动所有任务，ctx 在应用关闭时取消，传递给任务执行
// 调度器随 SafeClose 的关闭信号一起停止
func (s *Scheduler) Start(ctx context.Context) error {
	if ctx != nil {
		s.baseCtx = ctx
	}
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return nil
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		if task.IsStartupRun() {
			t := task
			go s.runOnce(t, true)
		}
		if spec := task.CronSpec(); spec != "" {
			t := task
			if _, err := s.cron.AddFunc(spec, func() { s.runOnce(t, false) }); err != nil {
				return err
			}
		}
	}

	s.cron.Start()

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		ctx := s.cron.Stop()
		// 等待正在运行的任务结束
		<-ctx.Done()
		s.logger.Info("task scheduler stopped")
	})

	return nil
}

func (s *Scheduler) runOnce(task Task, startup bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	s.logger.Info("task running", zap.String("name", task.Name()), zap.Bool("startupRun", startup))
	if err := task.Run(s.baseCtx); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.Bool("startupRun", startup),
			zap.Error(err))
	}
}
