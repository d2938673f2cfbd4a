// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// Result pairs a work item with the error its processing returned.
type Result[T any] struct {
	Item T
	Err  error
}

// Process runs process for each item on workerCount goroutines. A failing item
// does not stop the others; only ctx does. onResult, if set, is called from a
// single goroutine once per finished item.
//
// The returned error joins every item error and, if ctx ended before all items
// were handed out, the context error.
func Process[T any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(context.Context, T) error,
	onResult func(Result[T]),
) error {
	if workerCount <= 0 {
		workerCount = 1
	}

	tasks := make(chan T)
	results := make(chan Result[T], workerCount)
	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				results <- Result[T]{Item: item, Err: process(ctx, item)}
			}
		}()
	}

	var dispatchErr error
	go func() {
		defer close(tasks)
		for _, item := range items {
			select {
			case <-ctx.Done():
				dispatchErr = ctx.Err()
				return
			case tasks <- item:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var errs []error
	for res := range results {
		if onResult != nil {
			onResult(res)
		}
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}

	// tasks is closed before the workers exit, so dispatchErr is settled here.
	if dispatchErr != nil {
		errs = append(errs, dispatchErr)
	}
	return errors.Join(errs...)
}
