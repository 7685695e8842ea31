package pipeline

// Unit identifies an execution unit, and doubles as the operand tag
// broadcast on the common data bus. The zero value UnitNone is the
// dedicated "operand ready / no producer" variant.
type Unit uint8

// Execution units. NumUnits counts the real units; stations are stored in
// an array of NumUnits+1 entries so that units 1..6 index it directly and
// index 0 stays unused.
const (
	UnitNone Unit = iota
	UnitLoad1
	UnitLoad2
	UnitStore1
	UnitStore2
	UnitInt1
	UnitInt2

	NumUnits = 6
)

// String returns the unit name.
func (u Unit) String() string {
	switch u {
	case UnitNone:
		return "READY"
	case UnitLoad1:
		return "LOAD1"
	case UnitLoad2:
		return "LOAD2"
	case UnitStore1:
		return "STORE1"
	case UnitStore2:
		return "STORE2"
	case UnitInt1:
		return "INT1"
	case UnitInt2:
		return "INT2"
	default:
		return "INVALID"
	}
}

// intUnits and loadUnits are the issue pools. Store units are not issue
// targets: they are claimed by the commit-phase second half of a store.
var (
	intUnits   = [2]Unit{UnitInt1, UnitInt2}
	loadUnits  = [2]Unit{UnitLoad1, UnitLoad2}
	storeUnits = [2]Unit{UnitStore1, UnitStore2}
)

// Station is one reservation station. Each operand is either a captured
// value (Q == UnitNone) or a pending tag naming the producing unit.
type Station struct {
	// Busy marks the station as occupied by an in-flight instruction.
	Busy bool
	// Instr is the captured instruction word.
	Instr uint32
	// Vj and Vk are the captured operand values, meaningful only while
	// the matching tag is UnitNone.
	Vj uint32
	Vk uint32
	// Qj and Qk name the units that will produce the operands.
	Qj Unit
	Qk Unit
	// ExTimeLeft is the remaining execution time in cycles.
	ExTimeLeft uint32
	// ROBIdx is the reorder-buffer slot of the owning instruction.
	ROBIdx int
}

// Ready reports whether both operands are available.
func (s *Station) Ready() bool {
	return s.Qj == UnitNone && s.Qk == UnitNone
}
