package domain

import "time"

// TransportMode is the mode a shipment moved under.
type TransportMode string

const (
	ModeAir   TransportMode = "air"
	ModeOcean TransportMode = "ocean"
	ModeOther TransportMode = "other"
)

// ParseTransportMode maps a raw mode string onto the known enumeration.
// Unrecognized values return ok=false; callers treat that as "no filter"
// rather than an error, so cosmetic filter mistakes degrade gracefully.
func ParseTransportMode(raw string) (TransportMode, bool) {
	switch TransportMode(raw) {
	case ModeAir, ModeOcean, ModeOther:
		return TransportMode(raw), true
	default:
		return "", false
	}
}

// ShipmentRecord is one bill-of-lading-derived transaction row.
// Rows are owned by the shipment store and never mutated here.
type ShipmentRecord struct {
	SnapshotDate  time.Time
	Mode          TransportMode
	HSCode        string
	OriginCountry string
	DestCountry   string
	Carrier       string
	ShipperName   string
	ConsigneeName string
	ValueUSD      *float64
	WeightKG      *float64
	TEU           *float64
}

// Lane is the origin/destination country pair a shipment moved on.
// Kept as a pair rather than a joined string: country values can
// themselves contain separators ("GUINEA-BISSAU").
type Lane struct {
	Origin string
	Dest   string
}

// Lane returns the pair this shipment moved on.
func (s ShipmentRecord) Lane() Lane {
	return Lane{Origin: s.OriginCountry, Dest: s.DestCountry}
}
