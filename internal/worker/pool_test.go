package worker

import (
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	counter *atomic.Int32
	done    chan struct{}
}

func (j *countingJob) ID() string { return "counting" }

func (j *countingJob) Execute() error {
	j.counter.Add(1)
	j.done <- struct{}{}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDispatcherRunsSubmittedJobs(t *testing.T) {
	d := NewDispatcher(2, 8, quietLogger())
	d.Run()
	defer d.Stop()

	var counter atomic.Int32
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		d.Submit(&countingJob{counter: &counter, done: done})
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}
	assert.Equal(t, int32(3), counter.Load())
}

func TestSubmitDropsWhenQueueFull(t *testing.T) {
	// No workers running: the buffered queue fills and further submits
	// must not block.
	d := NewDispatcher(1, 1, quietLogger())

	var counter atomic.Int32
	done := make(chan struct{}, 2)
	d.Submit(&countingJob{counter: &counter, done: done})

	submitted := make(chan struct{})
	go func() {
		d.Submit(&countingJob{counter: &counter, done: done})
		close(submitted)
	}()
	select {
	case <-submitted:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
}
