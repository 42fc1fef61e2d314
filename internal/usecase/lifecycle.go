package usecase

import (
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/apperr"
)

// authorizeTransition decides whether the actor's role may move a booking
// from its current status to target. Ownership is checked by the caller
// before this; admins are tenant-scoped but skip ownership.
//
// The graph: pending -> confirmed -> in_progress -> completed, with
// cancelled reachable from pending only. Completed and cancelled are
// terminal for every role.
func authorizeTransition(role entity.UserRole, from, to entity.BookingStatus) error {
	if !entity.ValidStatus(to) {
		return apperr.Validation("unknown_status", fmt.Sprintf("unknown booking status %q", to))
	}

	if from.IsTerminal() {
		return apperr.Conflict("booking_terminal", fmt.Sprintf("booking is already %s", from))
	}

	if to == entity.BookingStatusCancelled {
		if from != entity.BookingStatusPending {
			return apperr.Conflict("not_cancellable", fmt.Sprintf("cannot cancel a %s booking", from))
		}
		switch role {
		case entity.RoleCustomer, entity.RoleAdmin, entity.RoleSuperAdmin, entity.RoleSystem:
			return nil
		default:
			return apperr.Authorization("role_forbidden", "this role may not cancel bookings")
		}
	}

	switch role {
	case entity.RoleCustomer, entity.RoleGuest:
		return apperr.Authorization("role_forbidden", "customers may only cancel pending bookings")
	case entity.RoleProvider, entity.RoleSystem:
		if !from.IsForwardStep(to) {
			return apperr.Conflict("illegal_transition", fmt.Sprintf("cannot move booking from %s to %s", from, to))
		}
		return nil
	case entity.RoleAdmin, entity.RoleSuperAdmin:
		// Admin override still may not regress the forward path.
		if !from.IsForwardStep(to) {
			return apperr.Conflict("illegal_transition", fmt.Sprintf("cannot move booking from %s to %s", from, to))
		}
		return nil
	default:
		return apperr.Authorization("role_forbidden", fmt.Sprintf("role %q may not transition bookings", role))
	}
}
