package candidate

// Availability says whether a candidate is still a good idea to use.
type Availability uint8

const (
	Available Availability = iota
	SoftDeprecated
	Deprecated
)

// ModuleProximity is the import distance of the candidate's defining module.
type ModuleProximity struct {
	// State is one of the ModuleProximity* constants below.
	State uint8
	// Distance is the import hop count when State is ModuleImported.
	Distance int
}

const (
	ModuleProximityInapplicable uint8 = iota
	ModuleProximityUnspecified
	ModuleImported
	ModuleUnimported
)

// Imported returns a proximity for a module imported at the given distance.
func Imported(distance int) ModuleProximity {
	if distance < 0 {
		distance = 0
	}
	return ModuleProximity{State: ModuleImported, Distance: distance}
}

// ScopeProximity is how lexically close the candidate's declaration is.
type ScopeProximity uint8

const (
	ScopeInapplicable ScopeProximity = iota
	ScopeLocal
	ScopeCurrentContainer
	ScopeInheritedContainer
	ScopeOuterContainer
	ScopeGlobal
)

// StructuralProximity separates project code from platform libraries.
type StructuralProximity struct {
	State uint8
	// Hops is the project-relative distance when known, -1 otherwise.
	Hops int
}

const (
	StructuralInapplicable uint8 = iota
	StructuralProject
	StructuralPlatformLibrary
)

// TypeCompatibility is the projected expected-type relation.
type TypeCompatibility uint8

const (
	TypeInapplicable TypeCompatibility = iota
	TypeIdentical
	TypeConvertible
	TypeUnrelated
	TypeInvalid
)

// Synchronicity flags async/actor-isolation mismatches.
type Synchronicity uint8

const (
	SyncCompatible Synchronicity = iota
	SyncIncompatible
)

// Popularity is an optional usage-frequency signal in [0, 1].
type Popularity struct {
	Score float64
	Known bool
}

// NoPopularity is the absent signal.
var NoPopularity = Popularity{}

// Classification carries the independent semantic dimensions computed for
// one candidate. It is computed at most once per candidate per session.
type Classification struct {
	Availability  Availability
	ModuleProx    ModuleProximity
	ScopeProx     ScopeProximity
	StructProx    StructuralProximity
	Popularity    Popularity
	TypeCompat    TypeCompatibility
	Synchronicity Synchronicity
	Flair         Flair

	// Context keeps the raw locality signal around for bucket assignment.
	Context SemanticContext
}
