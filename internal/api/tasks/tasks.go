package tasks

import (
	"context"
	"log/slog"
	"sync"
)

type Task = func()

// BackgroundTasks is a fixed pool of workers draining a bounded queue.
// Add blocks while the queue is full.
type BackgroundTasks struct {
	log        *slog.Logger
	tasks      chan Task
	maxWorkers int
	wg         *sync.WaitGroup
	onDone     func(panicked bool)
}

func New(log *slog.Logger, maxWorkers int, maxTasksQueueSize int) *BackgroundTasks {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	wg := &sync.WaitGroup{}
	wg.Add(maxWorkers)
	return &BackgroundTasks{
		log:        log,
		maxWorkers: maxWorkers,
		wg:         wg,
		tasks:      make(chan Task, maxTasksQueueSize),
		onDone:     func(bool) {},
	}
}

// OnDone registers a hook called after every task.
func (t *BackgroundTasks) OnDone(fn func(panicked bool)) {
	t.onDone = fn
}

func (t *BackgroundTasks) Run() {
	for i := 0; i < t.maxWorkers; i++ {
		go func() {
			defer t.wg.Done()
			log := t.log.With("worker", i)
			for task := range t.tasks {
				t.onDone(t.exec(log, task))
			}
		}()
	}
}

func (t *BackgroundTasks) exec(log *slog.Logger, task Task) (panicked bool) {
	defer func() {
		if err := recover(); err != nil {
			log.Error("panic", "err", err)
			panicked = true
		}
	}()
	task()
	log.Debug("task done")
	return false
}

func (t *BackgroundTasks) Add(task Task) {
	t.tasks <- task
}

func (t *BackgroundTasks) IsEmpty() bool {
	return len(t.tasks) == 0
}

func (t *BackgroundTasks) Shutdown(ctx context.Context) error {
	const op = "tasks.BackgroundTasks.Shutdown"
	log := t.log.With("op", op)
	log.Info("shutting down background tasks")
	close(t.tasks)
	shutdownCh := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(shutdownCh)
	}()
	select {
	case <-ctx.Done():
		log.Warn("graceful shutdown timed out.. forcing exit", "timeout", ctx.Err())
		return ctx.Err()
	case <-shutdownCh:
		log.Info("Background tasks succesfully stopped")
		return nil
	}
}
