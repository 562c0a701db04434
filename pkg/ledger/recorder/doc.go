// Package recorder provides asynchronous ledger writes.
//
// The Recorder accepts completed SessionRecords from relay teardown and
// upgrade failure paths and writes them to storage on a background worker,
// so ledger persistence never blocks the gateway's data path. When the
// write channel is full the record is dropped and the drop is logged.
package recorder
