package nodewire

// assert panics on API contract violations: mismatched Begin/End pairs,
// calls outside their required scope, and similar caller bugs that have
// no recoverable interpretation.
func assert(cond bool, msg string) {
	if !cond {
		panic("nodewire: " + msg)
	}
}
