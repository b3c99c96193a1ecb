package syncer

// Event enumerates the observable sync lifecycle notifications.
type Event string

const (
	EventLocalDataLoaded          Event = "local_data_loaded"
	EventLocalDataIncrementalLoad Event = "local_data_incremental_load"
	EventSyncError                Event = "sync_error"
	EventInvalidSession           Event = "invalid_session"
	EventSingleSyncCompleted      Event = "single_sync_completed"
	EventFullSyncCompleted        Event = "full_sync_completed"
	EventMajorDataChange          Event = "major_data_change"
	EventEnterOutOfSync           Event = "enter_out_of_sync"
	EventExitOutOfSync            Event = "exit_out_of_sync"
)

// EventHandler receives a lifecycle event with optional detail data.
type EventHandler func(event Event, data any)

// eventObservers delivers events to subscribers synchronously, in
// registration order. It is owned by a single manager instance; two managers
// never share observer lists.
type eventObservers struct {
	handlers []EventHandler
}

func (o *eventObservers) add(handler EventHandler) {
	o.handlers = append(o.handlers, handler)
}

func (o *eventObservers) notify(event Event, data any) {
	for _, handler := range o.handlers {
		handler(event, data)
	}
}
