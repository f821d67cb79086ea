// Package retention prunes stored analyses.
//
// Pruning runs in two phases. Records older than the retention window are
// deleted first; then, if MaxRecords is set, the oldest records are deleted
// until the count fits.
//
// A Scheduler runs the pruner on a standard cron expression:
//
//	pruner := retention.NewPruner(store, &cfg.Retention)
//	scheduler := retention.NewScheduler(pruner, cfg.Retention.Schedule)
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
//
// Common expressions:
//
//	"0 3 * * *"    daily at 3 AM
//	"0 */6 * * *"  every 6 hours
//	"0 0 * * 0"    weekly on Sunday at midnight
package retention
