// Package spdlog provides a structured, high-throughput, in-process
// logging core. Application code builds a Logger around one or more Sinks;
// the Logger filters by level, formats each record, and fans it out to
// every sink in order. Wrapping any Sink in sinks.NewAsyncSink decouples
// that fan-out from the caller's goroutine via a bounded queue and a single
// background worker.
package spdlog
