package cart

import "github.com/rahul4902/blood-sub001/internal/model"

// AddItem inserts a line with quantity 1. If a line with the same (id, type)
// already exists the action is a no-op: it neither bumps the quantity nor
// replaces the stored name or price.
type AddItem struct {
	Item model.LineItem
}

func (a AddItem) apply(s State) State {
	if s.indexOf(a.Item.Key()) >= 0 {
		return s
	}
	out := s.clone()
	item := a.Item
	item.Quantity = 1
	out.Items = append(out.Items, item)
	return out
}

type RemoveItem struct {
	ID   string
	Type model.ItemType
}

func (a RemoveItem) apply(s State) State {
	i := s.indexOf(model.LineKey{ID: a.ID, Type: a.Type})
	if i < 0 {
		return s
	}
	out := s.clone()
	out.Items = append(out.Items[:i], out.Items[i+1:]...)
	return out
}

// UpdateQuantity sets the quantity directly; zero or less removes the line.
// There is no upper bound.
type UpdateQuantity struct {
	ID       string
	Type     model.ItemType
	Quantity int
}

func (a UpdateQuantity) apply(s State) State {
	if a.Quantity <= 0 {
		return RemoveItem{ID: a.ID, Type: a.Type}.apply(s)
	}
	i := s.indexOf(model.LineKey{ID: a.ID, Type: a.Type})
	if i < 0 {
		return s
	}
	out := s.clone()
	out.Items[i].Quantity = a.Quantity
	return out
}
