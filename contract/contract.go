//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"messenger/domain/event"
)

// EventSink is a live connection handle. One sink exists per connected
// device; a user with three open devices owns three sinks.
type EventSink interface {
	Consume(ctx context.Context, e event.ConversationEvent) error
}

// IPresenceRegistry maps a user identity to its currently connected
// handles. Absence is a valid state (user offline), never an error.
type IPresenceRegistry interface {
	Connect(userID, handleID string, sink EventSink)
	Disconnect(handleID string)
	Lookup(userID string) []EventSink
}

// IFanout pushes an event to every live handle of a user, best-effort.
type IFanout interface {
	Deliver(ctx context.Context, userID string, e event.ConversationEvent)
}
