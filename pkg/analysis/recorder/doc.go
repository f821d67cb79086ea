// Package recorder persists analysis results.
//
// A Recorder turns an engine Result into an analysis.Record, stamps it with a
// content hash and UTC timestamp, and writes it to storage under a bounded
// write timeout. Writes are synchronous so the API can report the stored ID.
//
// Callers treat a failed write as non-fatal: the verdict is still returned
// to the client with persisted=false.
//
//	rec := recorder.New(store, &cfg.Recorder,
//	    recorder.WithMetrics(collector),
//	    recorder.WithTracer(tracer),
//	)
//	record, err := rec.Record(ctx, requestID, text, result)
package recorder
