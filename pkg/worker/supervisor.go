package worker

import (
	"sync"
	"time"

	"github.com/df07/go-progressive-raytracer/pkg/protocol"
)

const supervisorTick = 16 * time.Millisecond
const statsInterval = 1 * time.Second

// handleStartRender spawns the render threads, runs the supervisor loop
// that reports progress and watches for completion or abort, and returns
// the goodbye message once the job is over. It blocks for the whole job,
// the same way the original worker's startRender() blocks the connection
// loop until rendering finishes.
func (s *Session) handleStartRender() (protocol.Message, error) {
	s.rendererSt.Begin()
	s.logger.Printf("starting render job with %d threads", s.threadCount)

	var wg sync.WaitGroup
	wg.Add(s.threadCount)
	for t := 0; t < s.threadCount; t++ {
		done := make(chan struct{})
		go func(threadNum int, done chan struct{}) {
			defer wg.Done()
			s.renderThread(threadNum, done)
		}(t, done)
	}
	if s.metrics != nil {
		s.metrics.ActiveThreads.Set(float64(s.threadCount))
	}

	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()

	ticker := time.NewTicker(supervisorTick)
	defer ticker.Stop()
	lastStats := time.Now()

	for {
		select {
		case <-allDone:
			s.rendererSt.Finish()
			if s.metrics != nil {
				s.metrics.ActiveThreads.Set(0)
			}
			return protocol.NewAction(protocol.ActionGoodbye), nil
		case <-ticker.C:
			if s.rendererSt.IsAborted() {
				<-allDone
				if s.metrics != nil {
					s.metrics.ActiveThreads.Set(0)
				}
				return protocol.NewAction(protocol.ActionGoodbye), nil
			}
			if time.Since(lastStats) >= statsInterval {
				s.sendStats()
				lastStats = time.Now()
			}
		}
	}
}

// sendStats pushes a periodic progress update to the coordinator. It is
// sent unsolicited (not a reply to anything) so it shares the connection
// mutex with getWork/submitWork rather than the top-level Serve loop.
func (s *Session) sendStats() {
	s.statsMu.Lock()
	completed := s.stats.SamplesCompleted
	avg := s.stats.AvgTimePerTile
	s.statsMu.Unlock()

	if s.metrics != nil {
		s.metrics.AvgSampleTime.Set(avg.Seconds())
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()
	msg := protocol.Message{
		Action:     protocol.ActionStats,
		Completed:  uint64(completed),
		AvgPerPass: float64(avg) / float64(time.Second),
	}
	if err := protocol.Send(s.conn, msg); err != nil {
		s.logger.Printf("failed to send stats update: %v", err)
	}
}

// Abort requests that the in-progress render stop as soon as each thread
// next checks between tiles. It is safe to call at any time, including
// when no render is in progress.
func (s *Session) Abort() {
	if s.rendererSt != nil {
		s.rendererSt.Abort()
	}
}
