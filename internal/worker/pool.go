package worker

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Job is a unit of background work, e.g. re-aggregating the watch stats of
// one video.
type Job interface {
	Execute() error
	ID() string
}

// Worker pulls jobs from its own channel after registering that channel with
// the shared pool.
type Worker struct {
	id         int
	workerPool chan chan Job
	jobChannel chan Job
	quit       chan bool
	wg         *sync.WaitGroup
	log        *logrus.Logger
}

// NewWorker creates a Worker bound to the dispatcher's pool.
func NewWorker(id int, workerPool chan chan Job, wg *sync.WaitGroup, log *logrus.Logger) Worker {
	return Worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan Job),
		quit:       make(chan bool),
		wg:         wg,
		log:        log,
	}
}

// Start makes the Worker listen for jobs on its channel until stopped.
func (w Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			w.workerPool <- w.jobChannel

			select {
			case job := <-w.jobChannel:
				entry := w.log.WithFields(logrus.Fields{"worker": w.id, "job": job.ID()})
				entry.Debug("job started")
				if err := job.Execute(); err != nil {
					entry.WithField("error", err.Error()).Error("job failed")
				} else {
					entry.Debug("job finished")
				}
			case <-w.quit:
				return
			}
		}
	}()
}

// Stop signals the worker to exit after its current job.
func (w Worker) Stop() {
	go func() {
		w.quit <- true
	}()
}

// Dispatcher owns a pool of workers and a buffered job queue. Submissions
// from the request path never block: when the queue is full the job is
// dropped and logged, and the next event for the same video re-triggers the
// aggregation anyway.
type Dispatcher struct {
	maxWorkers int
	workerPool chan chan Job
	jobQueue   chan Job
	workers    []Worker
	wg         sync.WaitGroup
	quit       chan bool
	log        *logrus.Logger
}

// NewDispatcher creates a Dispatcher with the given pool and queue sizes.
func NewDispatcher(maxWorkers, jobQueueSize int, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		maxWorkers: maxWorkers,
		workerPool: make(chan chan Job, maxWorkers),
		jobQueue:   make(chan Job, jobQueueSize),
		workers:    make([]Worker, 0, maxWorkers),
		quit:       make(chan bool),
		log:        log,
	}
}

// Run starts the workers and the dispatch loop.
func (d *Dispatcher) Run() {
	for i := 1; i <= d.maxWorkers; i++ {
		w := NewWorker(i, d.workerPool, &d.wg, d.log)
		d.workers = append(d.workers, w)
		w.Start()
	}
	go d.dispatch()
	d.log.WithField("workers", d.maxWorkers).Info("dispatcher running")
}

func (d *Dispatcher) dispatch() {
	for {
		select {
		case job := <-d.jobQueue:
			go func(job Job) {
				jobChannel := <-d.workerPool
				jobChannel <- job
			}(job)
		case <-d.quit:
			return
		}
	}
}

// Submit queues a job without blocking the caller.
func (d *Dispatcher) Submit(job Job) {
	select {
	case d.jobQueue <- job:
	default:
		d.log.WithField("job", job.ID()).Warn("job queue full, dropping job")
	}
}

// Stop shuts down the dispatch loop and waits for in-flight jobs.
func (d *Dispatcher) Stop() {
	d.quit <- true
	for _, w := range d.workers {
		w.Stop()
	}
	d.wg.Wait()
	d.log.Info("dispatcher stopped")
}
