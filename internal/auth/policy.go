package auth

import "github.com/google/uuid"

// Action is an operation an actor may attempt against an entity.
type Action string

const (
	ActionCreateProperty Action = "property.create"
	ActionUpdateProperty Action = "property.update"
	ActionDeleteProperty Action = "property.delete"
	ActionVerifyProperty Action = "property.verify"

	ActionCreateBooking   Action = "booking.create"
	ActionViewBooking     Action = "booking.view"
	ActionCancelBooking   Action = "booking.cancel"
	ActionCompleteBooking Action = "booking.complete"

	ActionCreateOrder Action = "order.create"
	ActionViewOrder   Action = "order.view"
	ActionAcceptOrder Action = "order.accept"
	ActionCancelOrder Action = "order.cancel"
	ActionDriveOrder  Action = "order.drive"

	ActionSubmitReview Action = "review.submit"
)

// Ownership describes how an actor relates to a target entity: OwnerID is
// the actor that created it, CounterpartyID the other side of the
// transaction (the property host for a booking, the assigned driver for a
// delivery order). Nil counterparty means none is assigned yet.
type Ownership struct {
	OwnerID        uuid.UUID
	CounterpartyID *uuid.UUID
}

func (o Ownership) isOwner(a Actor) bool {
	return a.ID == o.OwnerID
}

func (o Ownership) isCounterparty(a Actor) bool {
	return o.CounterpartyID != nil && a.ID == *o.CounterpartyID
}

// CanPerform is the single authorization decision point. Every rule about
// who may do what to a booking, order, property or review lives here instead
// of being scattered across handlers.
func CanPerform(actor Actor, action Action, target Ownership) bool {
	if actor.Role == RoleAdmin {
		// Admins may not impersonate transaction participants.
		switch action {
		case ActionCreateBooking, ActionCreateOrder, ActionAcceptOrder, ActionDriveOrder:
			return false
		}
		return true
	}

	switch action {
	case ActionCreateProperty:
		return actor.Role == RoleHost
	case ActionUpdateProperty, ActionDeleteProperty:
		return actor.Role == RoleHost && target.isOwner(actor)
	case ActionVerifyProperty:
		return false // admin only, handled above

	case ActionCreateBooking:
		return actor.Role == RoleCustomer
	case ActionViewBooking:
		return target.isOwner(actor) || target.isCounterparty(actor)
	case ActionCancelBooking:
		return target.isOwner(actor) || target.isCounterparty(actor)
	case ActionCompleteBooking:
		return actor.Role == RoleHost && target.isCounterparty(actor)

	case ActionCreateOrder:
		return actor.Role == RoleCustomer
	case ActionViewOrder:
		return target.isOwner(actor) || target.isCounterparty(actor)
	case ActionAcceptOrder:
		return actor.Role == RoleDriver
	case ActionCancelOrder:
		return target.isOwner(actor)
	case ActionDriveOrder:
		return actor.Role == RoleDriver && target.isCounterparty(actor)

	case ActionSubmitReview:
		return actor.Role.IsValid()
	}

	return false
}
