package scanner

import (
	"sync"
	"time"

	"gatekeeper-bot/model"
	"gatekeeper-bot/moderation"

	"github.com/sirupsen/logrus"
)

// ProcessPendingActions fetches every scheduled action that has come due,
// executes them concurrently, and deletes each consumed row individually.
// Delivery is at-least-once: a crash between execute and delete means the
// action runs again on the next tick, which is safe because the executor's
// platform calls use absolute semantics.
func ProcessPendingActions(scheduler *moderation.ActionScheduler, executor *moderation.Executor) {
	due, err := scheduler.Due(time.Now())
	if err != nil {
		logrus.WithField("error", err).Error("Failed to query due pending actions")
		return
	}
	if len(due) == 0 {
		return
	}

	var wg sync.WaitGroup
	workerLimit := 5 // Limit to 5 concurrent workers
	guard := make(chan struct{}, workerLimit)

	for _, row := range due {
		wg.Add(1)
		guard <- struct{}{} // Acquire a worker slot

		go func(row model.PendingAction) {
			defer func() {
				<-guard // Release the worker slot
				wg.Done()
			}()

			action, err := row.Action()
			if err != nil {
				// A row that cannot be decoded would be retried forever;
				// drop it and keep the payload in the log for forensics.
				logrus.WithFields(logrus.Fields{
					"id":      row.ID,
					"payload": row.Payload,
					"error":   err,
				}).Error("Dropping undecodable pending action")
				if err := scheduler.Delete(row.ID); err != nil {
					logrus.WithField("error", err).Error("Failed to delete undecodable pending action")
				}
				return
			}

			executor.Execute(action)
			if err := scheduler.Delete(row.ID); err != nil {
				logrus.WithFields(logrus.Fields{
					"id":    row.ID,
					"error": err,
				}).Error("Failed to delete executed pending action; it will re-run")
			}
		}(row)
	}

	wg.Wait()
}
