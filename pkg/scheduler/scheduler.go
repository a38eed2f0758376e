package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type workRequest struct {
	fn     Work[any]
	future *Future[Result[any]]
	ctx    context.Context
}

type worker struct {
	done chan any
	wg   *sync.WaitGroup
}

func (w worker) Work(r workRequest) {
	defer w.wg.Done()

	r.future.resolve(w.run(r))
	w.done <- struct{}{}
}

func (w worker) run(r workRequest) (result Result[any]) {
	defer func() {
		if p := recover(); p != nil {
			zap.S().Named("scheduler").Errorw("worker panicked", "panic", p)
			result = Result[any]{Err: fmt.Errorf("worker panicked: %v", p)}
		}
	}()

	v, err := r.fn(r.ctx)
	return Result[any]{Data: v, Err: err}
}

// Scheduler runs work on a fixed pool of workers in FIFO order.
type Scheduler struct {
	idle       int
	workQueue  *Queue[workRequest]
	close      chan any
	stopped    chan any
	done       chan any
	work       chan workRequest
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	closed     bool
	lock       sync.Mutex
}

func NewScheduler(nbWorkers int) *Scheduler {
	if nbWorkers < 1 {
		nbWorkers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		idle:       nbWorkers,
		workQueue:  &Queue[workRequest]{},
		close:      make(chan any),
		stopped:    make(chan any),
		done:       make(chan any, nbWorkers),
		work:       make(chan workRequest),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	go s.run()
	return s
}

// AddWork queues w and returns its future. Work added after Close resolves
// immediately with context.Canceled.
func (s *Scheduler) AddWork(w Work[any]) *Future[Result[any]] {
	ctx, cancel := context.WithCancel(s.mainCtx)
	future := newFuture[Result[any]](cancel)

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		future.resolve(Result[any]{Err: context.Canceled})
		return future
	}

	s.work <- workRequest{fn: w, future: future, ctx: ctx}
	return future
}

// Close cancels running work, drops queued work and waits for the workers to return.
func (s *Scheduler) Close() {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return
	}
	s.closed = true
	s.lock.Unlock()

	s.mainCancel()
	close(s.close)
	<-s.stopped
	s.wg.Wait()
}

func (s *Scheduler) run() {
	defer close(s.stopped)

	for {
		select {
		case w := <-s.work:
			s.workQueue.Push(w)
		case <-s.done:
			s.idle++
		case <-s.close:
			for s.workQueue.Len() > 0 {
				s.workQueue.Pop().future.resolve(Result[any]{Err: context.Canceled})
			}
			return
		}

		for s.idle > 0 && s.workQueue.Len() > 0 {
			s.dispatch(s.workQueue.Pop())
		}
	}
}

func (s *Scheduler) dispatch(r workRequest) {
	s.idle--
	s.wg.Add(1)
	go worker{done: s.done, wg: &s.wg}.Work(r)
}
