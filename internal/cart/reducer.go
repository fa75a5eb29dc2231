package cart

// Action is a single cart transition. The set of actions is closed: apply is
// unexported, so only this package can define new ones, and each one must
// implement apply to compile.
type Action interface {
	apply(State) State
}

// Reduce returns the state after a. s is never modified.
func Reduce(s State, a Action) State {
	return a.apply(s)
}
