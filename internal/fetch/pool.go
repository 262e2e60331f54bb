package fetch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Map runs fn over every item with at most workers concurrent goroutines
// and returns the results in input order. Workers never abort each other: a
// source's task function is expected to swallow its own fetch/parse errors
// and return an empty result, so the whole batch always runs to completion.
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) R) []R {
	if workers < 1 {
		workers = 1
	}
	results := make([]R, len(items))

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			results[i] = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait() // task functions never return errors
	return results
}

// Days expands the inclusive [start, end] range into calendar days.
func Days(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
