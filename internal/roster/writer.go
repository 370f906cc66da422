package roster

import (
	"context"
	"sync"
	"time"
)

// writeTimeout bounds a single background write.
const writeTimeout = 30 * time.Second

type job struct {
	op  Op
	gen uint64 // non-zero for updates
	run func(context.Context) error
}

type lane struct {
	jobs []job
}

// writer runs store writes in the background, one at a time per contact.
// An update that a newer update for the same contact has superseded is
// skipped when its turn comes.
type writer struct {
	mu     sync.Mutex
	lanes  map[string]*lane
	latest map[string]uint64
	seq    uint64
	wg     sync.WaitGroup
	report func(Failure)
}

func (w *writer) enqueue(id string, op Op, run func(context.Context) error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	j := job{op: op, run: run}
	if op == OpUpdate {
		w.seq++
		j.gen = w.seq
		w.latest[id] = j.gen
	}

	if l, ok := w.lanes[id]; ok {
		l.jobs = append(l.jobs, j)
		return
	}
	w.lanes[id] = &lane{jobs: []job{j}}
	w.wg.Add(1)
	go w.drain(id)
}

func (w *writer) drain(id string) {
	defer w.wg.Done()
	for {
		j, ok := w.next(id)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := j.run(ctx)
		cancel()
		if err != nil && w.report != nil {
			w.report(Failure{Op: j.op, ContactID: id, Err: err})
		}
	}
}

// next pops the lane's next runnable job, removing the lane once empty.
func (w *writer) next(id string) (job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	l := w.lanes[id]
	for len(l.jobs) > 0 {
		j := l.jobs[0]
		l.jobs = l.jobs[1:]
		if j.op == OpUpdate && j.gen < w.latest[id] {
			continue
		}
		return j, true
	}
	delete(w.lanes, id)
	delete(w.latest, id)
	return job{}, false
}
