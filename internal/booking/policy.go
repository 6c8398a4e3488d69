package booking

import "photobook/internal/auth"

// sideOf reports which party of b the actor acts for. ok is false when the
// actor has nothing to do with the booking.
func sideOf(actor auth.Actor, b *Booking) (Side, bool) {
	switch {
	case actor.IsAdmin():
		return SideAdmin, true
	case actor.UserID != "" && actor.UserID == b.ClientID:
		return SideClient, true
	case actor.UserID != "" && actor.UserID == b.PhotographerUserID:
		return SidePhotographer, true
	}
	return "", false
}

func canView(actor auth.Actor, b *Booking) bool {
	_, ok := sideOf(actor, b)
	return ok
}

// mayDrive reports whether side is allowed to take the edge owned by required.
func mayDrive(side, required Side) bool {
	return side == SideAdmin || side == required
}

// recipients returns the users to notify after actor moved b.
func recipients(side Side, b *Booking) []string {
	switch side {
	case SideClient:
		return []string{b.PhotographerUserID}
	case SidePhotographer:
		return []string{b.ClientID}
	default:
		return []string{b.ClientID, b.PhotographerUserID}
	}
}
