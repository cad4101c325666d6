// Package fanout applies an operation to many server names concurrently,
// with a bounded number in flight, collecting partial results instead of
// aborting the batch on the first failure.
package fanout

import "sync"

// Success pairs a server name with the result op produced for it.
type Success[T any] struct {
	Name   string
	Result T
}

// ForEachServer applies op(name) to every entry in names concurrently,
// with at most limit operations in flight at any instant. It returns the
// successes and the names that failed, both in the order names were
// given. The batch never aborts on an individual failure.
func ForEachServer[T any](names []string, op func(name string) (T, error), limit int) ([]Success[T], []string) {
	if limit < 1 {
		limit = 1
	}

	type outcome struct {
		index  int
		name   string
		result T
		err    error
	}

	outcomes := make([]outcome, len(names))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := op(name)
			outcomes[i] = outcome{index: i, name: name, result: result, err: err}
		}(i, name)
	}
	wg.Wait()

	successes := make([]Success[T], 0, len(names))
	var failures []string
	for _, o := range outcomes {
		if o.err != nil {
			failures = append(failures, o.name)
			continue
		}
		successes = append(successes, Success[T]{Name: o.name, Result: o.result})
	}
	return successes, failures
}
