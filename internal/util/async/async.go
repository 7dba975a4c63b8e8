package async

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Collect calls fn for every index in [0, n) concurrently and waits for all
// calls to return. At most limit calls run at once; limit <= 0 means no bound.
//
// results[i] and errs[i] always belong to call i. A failing call never stops
// or cancels its siblings.
func Collect[T any](ctx context.Context, n, limit int, fn func(ctx context.Context, i int) (T, error)) ([]T, []error) {
	results := make([]T, n)
	errs := make([]error, n)
	if n <= 0 {
		return results, errs
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range n {
		g.Go(func() error {
			results[i], errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}

// RunParallel executes tasks concurrently, at most limit at a time, and waits
// for all of them. Every failure is returned, joined in task order.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "demo-factory-1", Func: deleteFactory1},
//	    {Name: "demo-factory-2", Func: deleteFactory2},
//	}
//	if err := RunParallel(ctx, tasks, 0); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task, limit int) error {
	if len(tasks) == 0 {
		return nil
	}

	_, errs := Collect(ctx, len(tasks), limit, func(ctx context.Context, i int) (struct{}, error) {
		return struct{}{}, tasks[i].Func(ctx)
	})

	var failed []error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", tasks[i].Name, err))
		}
	}
	return errors.Join(failed...)
}
