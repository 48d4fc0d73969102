package resolver

// Mode selects how verification failures surface.
//
// Strict mode prefers explicit failure over silent acceptance. Permissive
// mode returns the record and reports the failure on the Resolution.
type Mode int

const (
	ModePermissive Mode = iota
	ModeStrict
)

func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "permissive"
}

// ParseMode accepts "strict" and "permissive"; empty is permissive.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "permissive":
		return ModePermissive, true
	case "strict":
		return ModeStrict, true
	default:
		return ModePermissive, false
	}
}

// Options controls resolver verification behavior.
//
// Default behavior is Permissive when Options{} is used.
type Options struct {
	Mode Mode
	// VerifyOverride checks a declared metadata hash against both the record
	// header and a hash recomputed from the body. By default the declared
	// hash of an immutable record is trusted.
	VerifyOverride bool
}

func (o Options) withDefaults() Options {
	if o.Mode != ModeStrict {
		o.Mode = ModePermissive
	}
	return o
}
