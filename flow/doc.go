// Package flow implements a cooperative single-threaded dataflow engine:
// typed fixed-capacity ring buffers connecting rate-heterogeneous stages,
// driven by a scheduler that scans the graph source-to-sink until the
// stream is exhausted.
//
// Stages never block on buffer room and never process partial units; a
// stage with insufficient input or output space simply declines to advance
// and is retried on the next pass. Buffer cursors are the only resumption
// state, so backpressure and ordering fall out of the readable/writable
// contract with no locking at all.
package flow
