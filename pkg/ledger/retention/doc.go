// Package retention enforces retention limits on the session ledger.
//
// The Pruner deletes session records older than the configured retention
// period and trims the ledger to a maximum record count. A cron-backed
// Scheduler runs pruning cycles automatically.
package retention
