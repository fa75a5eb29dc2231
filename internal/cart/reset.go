package cart

// ClearCart resets everything, used once an order has been placed.
type ClearCart struct{}

func (ClearCart) apply(State) State {
	return InitialState()
}

// Hydrate replaces the state with one read from storage.
type Hydrate struct{ State State }

func (a Hydrate) apply(State) State {
	return a.State.normalize()
}
