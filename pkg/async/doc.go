// Package async runs error-returning functions in the background and waits
// for them as futures.
//
// Exec starts one goroutine per call and returns an ExecFuture. Futures can be
// awaited one by one or as a group with AwaitAll, which shares a single
// deadline across every future:
//
//	futures := make([]*async.ExecFuture, 0, len(conns))
//	for _, c := range conns {
//		futures = append(futures, async.Exec(ctx, c, closeConn))
//	}
//
//	done, err := async.AwaitAll(5*time.Second, futures...)
//	if errors.Is(err, async.ErrTimeout) {
//		log.Printf("%d of %d closes still pending", len(futures)-done, len(futures))
//	}
//
// A future that misses the deadline keeps running; AwaitAll only stops
// waiting for it.
//
// AwaitAll returns ErrTimeout when the deadline passes first.
package async
