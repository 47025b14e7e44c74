package constants

// Organization permissions
const (
	// Admin permissions
	PermSuperAdminFull = "freight-forward.super-admin.full-permit"
	PermManagerFull    = "freight-forward.manager.full-permit"
	PermBookingFull    = "freight-forward.booking.full-permit"
	PermWarehouseFull  = "freight-forward.warehouse.full-permit"
	PermAccountsFull   = "freight-forward.accounts.full-permit"
	PermStoreFull      = "freight-forward.store.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	BackOfficeAdminPermissions = []string{
		PermSuperAdminFull,
		PermManagerFull,
	}
)
