package photo

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result is the outcome of preparing one photo.
type Result struct {
	Ref  string
	JPEG []byte // normalized photo; nil when Err is set or Ref is empty
	Err  error
}

// Pool prepares photos concurrently with a fixed number of workers.
type Pool struct {
	Fetcher Fetcher
	Workers int           // <= 0 means 4
	Timeout time.Duration // per fetch; <= 0 means 10s
	Box     Box           // zero means TicketBox
}

type job struct {
	index int
	ref   string
}

// Prefetch fetches and normalizes refs and returns one Result per ref in
// the same order. Empty refs yield an empty Result. Every fetch runs under
// ctx plus the per-fetch timeout; one failure never affects another ref.
func (p Pool) Prefetch(ctx context.Context, refs []string) []Result {
	results := make([]Result, len(refs))
	workers := p.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(refs) {
		workers = len(refs)
	}

	jobs := make(chan job, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = p.prepare(ctx, j.ref)
			}
		}()
	}

	for i, ref := range refs {
		if ref == "" {
			continue
		}
		jobs <- job{index: i, ref: ref}
	}
	close(jobs)
	wg.Wait()
	return results
}

func (p Pool) prepare(ctx context.Context, ref string) Result {
	res := Result{Ref: ref}
	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("photo: %s: %w", ref, err)
		return res
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := p.Fetcher.Fetch(fctx, ref)
	if err != nil {
		res.Err = err
		return res
	}
	box := p.Box
	if box == (Box{}) {
		box = TicketBox
	}
	res.JPEG, res.Err = Normalize(ref, data, box)
	return res
}
