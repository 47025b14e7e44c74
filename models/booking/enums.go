package booking

// BookingStatus is the booking lifecycle status.
type BookingStatus string

const (
	BookingStatusPending BookingStatus = "pending"
	BookingStatusSuccess BookingStatus = "success"
)

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusPending, BookingStatusSuccess:
		return true
	default:
		return false
	}
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusSuccess,
	}
}

// PickupKind tags how a booking's goods are collected: by an external pickup
// partner, by the sender themselves, or at the central warehouse.
type PickupKind string

const (
	PickupKindPartner PickupKind = "partner"
	PickupKindSelf    PickupKind = "self"
	PickupKindCentral PickupKind = "central"
)

func (pk PickupKind) String() string {
	return string(pk)
}

func (pk PickupKind) IsValid() bool {
	switch pk {
	case PickupKindPartner, PickupKindSelf, PickupKindCentral:
		return true
	default:
		return false
	}
}

// RequiresPartner reports whether the kind carries a partner reference.
func (pk PickupKind) RequiresPartner() bool {
	return pk == PickupKindPartner
}

// Sentinel request values accepted in place of a partner id. Kept for
// compatibility with the legacy API surface.
const (
	PickupSentinelSelf    = "Self"
	PickupSentinelCentral = "Central"
)
