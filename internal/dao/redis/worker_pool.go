package redis

import "go.uber.org/zap"

func (r *RedisCache) startWorkers() {
	for i := 0; i < r.workerNum; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	zap.L().Info("redis cache workers started", zap.Int("workers", r.workerNum), zap.Int("buffer", cap(r.taskChan)))
}

func (r *RedisCache) worker() {
	defer r.wg.Done()
	for task := range r.taskChan {
		r.run(task)
	}
}

// run isolates a panicking task so the worker keeps consuming.
func (r *RedisCache) run(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("redis cache task panic", zap.Any("recover", rec))
		}
	}()
	if task != nil {
		task()
	}
}

// SubmitTask queues action. A full queue runs it on the caller's goroutine,
// and after Close the task is dropped.
func (r *RedisCache) SubmitTask(action func()) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		zap.L().Warn("redis cache closed, task dropped")
		return
	}
	select {
	case r.taskChan <- action:
	default:
		zap.L().Warn("redis cache task queue full, executing synchronously")
		r.run(action)
	}
}

// Close drains the queue, waits for the workers and closes the client.
func (r *RedisCache) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.taskChan)
	r.mu.Unlock()

	r.wg.Wait()
	return r.client.Close()
}
