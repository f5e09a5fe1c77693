package provision

import "sync"

// ProgressEvent is a human-readable status update published before a step begins, or
// a warning raised by a best-effort step.
type ProgressEvent struct {
	RunID   string
	Step    Step
	Message string
	Warning bool
}

// ProgressSink receives workflow events. Publish must not block the workflow.
type ProgressSink interface {
	Publish(event ProgressEvent)
	Complete(result Result)
}

// ProgressHandler consumes events delivered by an AsyncProgressSink.
type ProgressHandler interface {
	HandleProgress(event ProgressEvent)
	HandleResult(result Result)
}

// ProgressHandlerFuncs adapts plain functions to ProgressHandler. Nil functions are skipped.
type ProgressHandlerFuncs struct {
	OnProgress func(event ProgressEvent)
	OnResult   func(result Result)
}

// HandleProgress forwards event to OnProgress.
func (handler ProgressHandlerFuncs) HandleProgress(event ProgressEvent) {
	if handler.OnProgress != nil {
		handler.OnProgress(event)
	}
}

// HandleResult forwards result to OnResult.
func (handler ProgressHandlerFuncs) HandleResult(result Result) {
	if handler.OnResult != nil {
		handler.OnResult(result)
	}
}

type queuedDelivery struct {
	event  ProgressEvent
	result *Result
}

// AsyncProgressSink queues events and hands them to a ProgressHandler from the goroutine
// running Drain, in publish order. The terminal result is always the last delivery.
type AsyncProgressSink struct {
	handler   ProgressHandler
	mutex     sync.Mutex
	available *sync.Cond
	queue     []queuedDelivery
	completed bool
}

// NewAsyncProgressSink constructs a sink delivering to handler. A nil handler discards events.
func NewAsyncProgressSink(handler ProgressHandler) *AsyncProgressSink {
	if handler == nil {
		handler = ProgressHandlerFuncs{}
	}
	sink := &AsyncProgressSink{handler: handler}
	sink.available = sync.NewCond(&sink.mutex)
	return sink
}

// Publish queues event. Events published after Complete are dropped.
func (sink *AsyncProgressSink) Publish(event ProgressEvent) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	if sink.completed {
		return
	}
	sink.queue = append(sink.queue, queuedDelivery{event: event})
	sink.available.Signal()
}

// Complete queues the terminal result and closes the sink. Later calls are ignored.
func (sink *AsyncProgressSink) Complete(result Result) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	if sink.completed {
		return
	}
	sink.completed = true
	terminal := result
	sink.queue = append(sink.queue, queuedDelivery{result: &terminal})
	sink.available.Signal()
}

// Drain delivers queued events until the terminal result has been handed over.
func (sink *AsyncProgressSink) Drain() {
	for {
		sink.mutex.Lock()
		for len(sink.queue) == 0 {
			sink.available.Wait()
		}
		delivery := sink.queue[0]
		sink.queue = sink.queue[1:]
		sink.mutex.Unlock()

		if delivery.result != nil {
			sink.handler.HandleResult(*delivery.result)
			return
		}
		sink.handler.HandleProgress(delivery.event)
	}
}

type discardingProgressSink struct{}

func (discardingProgressSink) Publish(ProgressEvent) {}

func (discardingProgressSink) Complete(Result) {}
