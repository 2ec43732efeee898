// Package async provides generic futures used to coordinate concurrent
// validation work.
//
// A Future represents the eventual outcome of an operation. It can be backed by
// a goroutine started with Go, or settled from the outside through the resolve
// function returned by NewPromise. The latter is how the form engine registers
// waiters on a pending remote-validation batch: each caller receives a Future
// and the coordinator settles it once the batch is superseded or performed.
//
// # Usage
//
//	future, resolve := async.NewPromise[int]()
//	go func() { resolve(42, nil) }()
//	v, err := future.AwaitContext(ctx)
//
// Fan-out with positional results:
//
//	futures := make([]*async.Future[string], len(items))
//	for i, item := range items {
//	    futures[i] = async.Go(ctx, item, check)
//	}
//	results, err := async.All(ctx, futures...)
//
// A Future settles exactly once; later calls to resolve are ignored.
//
// # Error Handling
//
// Await returns the error passed to resolve, or the one returned by the
// function started with Go. AwaitContext additionally returns ctx.Err() when
// the context ends first; the Future itself keeps running and may still
// settle later.
package async
