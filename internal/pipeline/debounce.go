package pipeline

import (
	"time"

	"mdsync/internal/model"
)

// Debounce collapses a burst of file events into a single SyncTrigger. One
// timer covers the whole tree: every incoming event restarts it, and when the
// quiet window finally elapses the trigger is attributed to the last event
// observed. Closing the input channel abandons any pending timer without
// firing, which is the shutdown contract — a clean exit does not owe a sync
// for a half-debounced burst.
//
// The output channel holds at most one trigger. If a new window elapses while
// a previous trigger is still unconsumed (a sync is in flight), the stale
// trigger is replaced so the consumer always sees the latest state.
func Debounce(inCh <-chan model.FileEvent, window time.Duration) <-chan model.SyncTrigger {
	outCh := make(chan model.SyncTrigger, 1)

	go func() {
		defer close(outCh)

		var timer *time.Timer
		var timerCh <-chan time.Time
		var last model.FileEvent

		for {
			select {
			case event, ok := <-inCh:
				if !ok {
					if timer != nil {
						timer.Stop()
					}
					return
				}

				last = event

				if timer == nil {
					timer = time.NewTimer(window)
					timerCh = timer.C
					continue
				}

				if !timer.Stop() {
					// Timer fired while we were handling this event;
					// the new event supersedes that expiry.
					select {
					case <-timerCh:
					default:
					}
				}
				timer.Reset(window)

			case <-timerCh:
				trigger := model.SyncTrigger{
					Reason:  last,
					FiredAt: time.Now(),
				}

				select {
				case outCh <- trigger:
				default:
					select {
					case <-outCh:
					default:
					}
					outCh <- trigger
				}

				timer = nil
				timerCh = nil
			}
		}
	}()

	return outCh
}
