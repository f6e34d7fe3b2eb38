package access

import (
	"github.com/google/uuid"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
)

type Action string

const (
	AuctionCreate    Action = "auction.create"
	AuctionUpdate    Action = "auction.update"
	AuctionDelete    Action = "auction.delete"
	AuctionArchive   Action = "auction.archive"
	AuctionCatalogue Action = "auction.catalogue"

	LotCreate       Action = "lot.create"
	LotUpdate       Action = "lot.update"
	LotDelete       Action = "lot.delete"
	LotAssign       Action = "lot.assign"
	LotWithdraw     Action = "lot.withdraw"
	LotCompleteSale Action = "lot.complete_sale"
	LotArchive      Action = "lot.archive"
	LotImageUpload  Action = "lot.image.upload"
	LotImageDelete  Action = "lot.image.delete"

	ClientLotsList Action = "client.lots.list"
)

// Actor is the authenticated client performing an action.
type Actor struct {
	ClientID uuid.UUID
	IsStaff  bool
}

func (a Actor) Authenticated() bool { return a.ClientID != uuid.Nil }

// Resource carries the ownership facts a rule may need; zero value for unowned resources.
type Resource struct {
	OwnerID uuid.UUID
}

type rule int

const (
	staffOnly rule = iota
	anyClient
	ownerOrStaff
)

var rules = map[Action]rule{
	AuctionCreate:    staffOnly,
	AuctionUpdate:    staffOnly,
	AuctionDelete:    staffOnly,
	AuctionArchive:   staffOnly,
	AuctionCatalogue: staffOnly,

	LotCreate:       anyClient,
	LotUpdate:       staffOnly,
	LotDelete:       staffOnly,
	LotAssign:       staffOnly,
	LotWithdraw:     ownerOrStaff,
	LotCompleteSale: staffOnly,
	LotArchive:      staffOnly,
	LotImageUpload:  staffOnly,
	LotImageDelete:  staffOnly,

	ClientLotsList: ownerOrStaff,
}

// Authorize is the single allow/deny decision point for mutations and client-scoped reads.
// Unknown actions are denied.
func Authorize(actor Actor, action Action, res Resource) error {
	op := string(action)
	if !actor.Authenticated() {
		return types.Unauthenticated(op, "authentication required")
	}
	r, ok := rules[action]
	if !ok {
		return types.Forbidden(op, "action is not permitted")
	}
	switch r {
	case anyClient:
		return nil
	case staffOnly:
		if actor.IsStaff {
			return nil
		}
		return types.Forbidden(op, "staff access required")
	case ownerOrStaff:
		if actor.IsStaff || (res.OwnerID != uuid.Nil && res.OwnerID == actor.ClientID) {
			return nil
		}
		return types.Forbidden(op, "only the owner or staff may do this")
	}
	return types.Forbidden(op, "action is not permitted")
}
