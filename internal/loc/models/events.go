package models

import (
	"time"

	id "locreg/pkg/domain"
)

// Domain events capture what happened to a LOC.
// These are pure data structures with no behavior beyond naming themselves;
// the service is responsible for recording them.

type EventType string

const (
	EventLocCreated EventType = "loc_created"
	EventLocClosed  EventType = "loc_closed"
	EventLocVoid    EventType = "loc_void"
	EventItemAdded  EventType = "item_added"
)

// Event is implemented by every LOC domain event.
type Event interface {
	EventType() EventType
	AggregateID() id.LocID
}

// LocCreated is emitted when any LOC flavor is created.
type LocCreated struct {
	LocID   id.LocID     `json:"loc_id"`
	Owner   id.AccountID `json:"owner"`
	LocType LocType      `json:"loc_type"`
}

// LocClosed is emitted by close and close-and-seal.
type LocClosed struct {
	LocID id.LocID `json:"loc_id"`
	Seal  *id.Hash `json:"seal,omitempty"`
}

// LocVoid is emitted when a LOC is voided, with or without replacer.
type LocVoid struct {
	LocID    id.LocID  `json:"loc_id"`
	Replacer *id.LocID `json:"replacer,omitempty"`
}

// ItemAdded is emitted when a collection item is admitted.
type ItemAdded struct {
	LocID  id.LocID            `json:"loc_id"`
	ItemID id.CollectionItemID `json:"item_id"`
}

func (LocCreated) EventType() EventType { return EventLocCreated }
func (LocClosed) EventType() EventType  { return EventLocClosed }
func (LocVoid) EventType() EventType    { return EventLocVoid }
func (ItemAdded) EventType() EventType  { return EventItemAdded }

func (e LocCreated) AggregateID() id.LocID { return e.LocID }
func (e LocClosed) AggregateID() id.LocID  { return e.LocID }
func (e LocVoid) AggregateID() id.LocID    { return e.LocID }
func (e ItemAdded) AggregateID() id.LocID  { return e.LocID }

// RecordedEvent is a domain event with the request context it happened in.
type RecordedEvent struct {
	Event      Event
	Actor      id.AccountID
	RequestID  string
	OccurredAt time.Time
}
