package domain

import (
	"time"

	"github.com/google/uuid"
)

type LotEventType string

const (
	LotEventCreated    LotEventType = "lot.created"
	LotEventListed     LotEventType = "lot.listed"
	LotEventWithdrawn  LotEventType = "lot.withdrawn"
	LotEventSold       LotEventType = "lot.sold"
	LotEventArchived   LotEventType = "lot.archived"
	LotEventUnarchived LotEventType = "lot.unarchived"
	LotEventDeleted    LotEventType = "lot.deleted"
)

// LotEvent is broadcast after a lifecycle change has committed.
type LotEvent struct {
	Type         LotEventType `json:"type"`
	LotID        uuid.UUID    `json:"lot_id"`
	LotReference string       `json:"lot_reference"`
	Status       LotStatus    `json:"status"`
	AuctionID    *uuid.UUID   `json:"auction_id,omitempty"`
	At           time.Time    `json:"at"`
}

func NewLotEvent(t LotEventType, lot *Lot, at time.Time) LotEvent {
	evt := LotEvent{Type: t, At: at.UTC()}
	if lot != nil {
		evt.LotID = lot.ID
		evt.LotReference = lot.LotReference
		evt.Status = lot.ReportedStatus()
		evt.AuctionID = lot.AuctionID
	}
	return evt
}
