package scheduler_test

import (
	"context"
	"errors"
	"runtime"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/assessment-report-agent/pkg/scheduler"
)

// blockingWork returns a work that signals started and waits for release or cancellation.
func blockingWork(started chan<- struct{}, release <-chan struct{}) scheduler.Work[any] {
	return func(ctx context.Context) (any, error) {
		close(started)
		select {
		case <-release:
			return "released", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

var _ = Describe("Scheduler", func() {
	var s *scheduler.Scheduler

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	Describe("AddWork", func() {
		It("should resolve the future with the work result", func() {
			// Arrange
			s = scheduler.NewScheduler(1)

			// Act
			future := s.AddWork(func(ctx context.Context) (any, error) {
				return []byte("%PDF-1.3"), nil
			})

			// Assert
			var result scheduler.Result[any]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Data).To(Equal([]byte("%PDF-1.3")))
		})

		It("should resolve the future with the work error", func() {
			s = scheduler.NewScheduler(1)

			future := s.AddWork(func(ctx context.Context) (any, error) {
				return nil, errors.New("capture failed")
			})

			result, err := future.Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Err).To(MatchError("capture failed"))
		})

		It("should run queued work in order on a single worker", func() {
			// Given a worker busy with a first export
			s = scheduler.NewScheduler(1)
			started, release := make(chan struct{}), make(chan struct{})
			s.AddWork(blockingWork(started, release))
			Eventually(started, time.Second).Should(BeClosed())

			order := make(chan string, 3)
			for _, kind := range []string{"pdf", "html", "xlsx"} {
				s.AddWork(func(ctx context.Context) (any, error) {
					order <- kind
					return nil, nil
				})
			}

			// When the first export finishes
			close(release)

			// Then the queued exports run in submission order
			var got []string
			for range 3 {
				var kind string
				Eventually(order, 2*time.Second).Should(Receive(&kind))
				got = append(got, kind)
			}
			Expect(got).To(Equal([]string{"pdf", "html", "xlsx"}))
		})

		It("should run work concurrently with several workers", func() {
			s = scheduler.NewScheduler(3)
			release := make(chan struct{})
			var startedAll []chan struct{}

			for range 3 {
				started := make(chan struct{})
				startedAll = append(startedAll, started)
				s.AddWork(blockingWork(started, release))
			}

			for _, started := range startedAll {
				Eventually(started, time.Second).Should(BeClosed())
			}
			close(release)
		})
	})

	Describe("Future", func() {
		It("should cancel the work context on Stop", func() {
			// Arrange
			s = scheduler.NewScheduler(1)
			started := make(chan struct{})
			future := s.AddWork(blockingWork(started, nil))
			Eventually(started, time.Second).Should(BeClosed())

			// Act
			future.Stop()

			// Assert
			result, err := future.Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Err).To(MatchError(context.Canceled))
		})

		It("should expose the result through Poll once resolved", func() {
			s = scheduler.NewScheduler(1)
			future := s.AddWork(func(ctx context.Context) (any, error) {
				return 3, nil
			})

			Eventually(future.Done(), time.Second).Should(BeClosed())

			polled, resolved := future.Poll()
			Expect(resolved).To(BeTrue())
			Expect(polled.Data).To(Equal(3))
		})

		It("should stop waiting when the caller context ends without stopping the work", func() {
			// Given a running export
			s = scheduler.NewScheduler(1)
			started, release := make(chan struct{}), make(chan struct{})
			future := s.AddWork(blockingWork(started, release))
			Eventually(started, time.Second).Should(BeClosed())

			// When the caller gives up waiting
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			_, err := future.Wait(ctx)

			// Then the export keeps running until it completes
			Expect(err).To(MatchError(context.DeadlineExceeded))
			_, resolved := future.Poll()
			Expect(resolved).To(BeFalse())

			close(release)
			result, err := future.Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Data).To(Equal("released"))
		})
	})

	Describe("Close", func() {
		It("should cancel running work and drop queued work", func() {
			// Arrange
			s = scheduler.NewScheduler(1)
			started := make(chan struct{})
			running := s.AddWork(blockingWork(started, nil))
			Eventually(started, time.Second).Should(BeClosed())

			ran := make(chan struct{}, 1)
			queued := s.AddWork(func(ctx context.Context) (any, error) {
				ran <- struct{}{}
				return nil, nil
			})

			// Act
			s.Close()
			s = nil

			// Assert
			r1, _ := running.Poll()
			Expect(r1.Err).To(MatchError(context.Canceled))
			r2, resolved := queued.Poll()
			Expect(resolved).To(BeTrue())
			Expect(r2.Err).To(MatchError(context.Canceled))
			Consistently(ran, 100*time.Millisecond).ShouldNot(Receive())
		})

		It("should resolve work added after Close with canceled", func() {
			s = scheduler.NewScheduler(1)
			s.Close()

			future := s.AddWork(func(ctx context.Context) (any, error) {
				return "never", nil
			})

			result, resolved := future.Poll()
			Expect(resolved).To(BeTrue())
			Expect(result.Err).To(MatchError(context.Canceled))
		})

		It("should wait for in-flight work to return", func() {
			// Arrange
			s = scheduler.NewScheduler(1)
			started, release := make(chan struct{}), make(chan struct{})
			s.AddWork(func(ctx context.Context) (any, error) {
				close(started)
				<-release
				return nil, nil
			})
			Eventually(started, time.Second).Should(BeClosed())

			// Act
			closed := make(chan struct{})
			go func() {
				s.Close()
				close(closed)
			}()

			// Assert
			Consistently(closed, 200*time.Millisecond).ShouldNot(BeClosed())
			close(release)
			Eventually(closed, time.Second).Should(BeClosed())
			s = nil
		})

		It("should not leak goroutines", func() {
			base := runtime.NumGoroutine()
			s = scheduler.NewScheduler(4)
			for range 100 {
				s.AddWork(func(ctx context.Context) (any, error) {
					<-ctx.Done()
					return nil, ctx.Err()
				})
			}

			s.Close()
			s = nil

			Eventually(runtime.NumGoroutine, 5*time.Second, 100*time.Millisecond).Should(BeNumerically("<=", base+10))
		})
	})

	Describe("panics", func() {
		It("should turn a panic into an error and keep serving work", func() {
			// Given
			s = scheduler.NewScheduler(1)

			// When
			panicked, err := s.AddWork(func(ctx context.Context) (any, error) {
				panic("nil canvas")
			}).Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())

			next, err := s.AddWork(func(ctx context.Context) (any, error) {
				return "ok", nil
			}).Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())

			// Then
			Expect(panicked.Err).To(MatchError(ContainSubstring("worker panicked: nil canvas")))
			Expect(next.Data).To(Equal("ok"))
		})
	})
})
