//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"peerchat/domain/event"
)

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes, avoiding the need for
// manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Publisher pushes outbound events onto the transport channel.
// The transport owns ordering within one connection; Publisher implementations
// must be safe for concurrent use because user intents and workers share one
// connection instance.
type Publisher interface {
	Publish(ctx context.Context, e event.Event) error
}

// EventSource delivers inbound transport events in per-connection arrival
// order. Delivery is at-least-once; consumers deduplicate by message id.
type EventSource interface {
	Receive(ctx context.Context) (event.Event, error)
}

// EventSink consumes events already applied to the local state, for side
// effects only (rendering, logs). A sink must never mutate session state.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}
