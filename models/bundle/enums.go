package bundle

// BundleStatus is the packing lifecycle status of a bundle.
type BundleStatus string

const (
	BundleStatusPending    BundleStatus = "pending"
	BundleStatusInProgress BundleStatus = "in_progress"
	BundleStatusCompleted  BundleStatus = "completed"
)

func (bs BundleStatus) String() string {
	return string(bs)
}

func (bs BundleStatus) IsValid() bool {
	switch bs {
	case BundleStatusPending, BundleStatusInProgress, BundleStatusCompleted:
		return true
	default:
		return false
	}
}

// IsCompleted returns true once packing of the bundle has finished.
func (bs BundleStatus) IsCompleted() bool {
	return bs == BundleStatusCompleted
}

// CanEnterReadyToShip returns true if the bundle may be viewed or edited
// through the ready-to-ship pathway.
func (bs BundleStatus) CanEnterReadyToShip() bool {
	return bs == BundleStatusCompleted
}

// ReadyToShipStatus is the shipping workflow stage of a completed bundle.
type ReadyToShipStatus string

const (
	ReadyToShipPending    ReadyToShipStatus = "pending"
	ReadyToShipStuffed    ReadyToShipStatus = "stuffed"
	ReadyToShipDispatched ReadyToShipStatus = "dispatched"
)

func (rs ReadyToShipStatus) String() string {
	return string(rs)
}

func (rs ReadyToShipStatus) IsValid() bool {
	switch rs {
	case ReadyToShipPending, ReadyToShipStuffed, ReadyToShipDispatched:
		return true
	default:
		return false
	}
}

// AllowsContainer reports whether a container reference may be carried in
// this status. Outside of these states the reference is cleared.
func (rs ReadyToShipStatus) AllowsContainer() bool {
	return rs == ReadyToShipStuffed || rs == ReadyToShipDispatched
}

// Priority orders bundles within the ready-to-ship queue.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}
