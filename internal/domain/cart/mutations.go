// internal/domain/cart/mutations.go
package cart

import "time"

// ClampQuantity bounds a requested quantity to [1, leftInStock].
// Zero or negative stock yields zero: the line cannot be held.
func ClampQuantity(quantity, leftInStock int) int {
	if leftInStock <= 0 {
		return 0
	}
	if quantity < 1 {
		return 1
	}
	if quantity > leftInStock {
		return leftInStock
	}
	return quantity
}

// AddLine adds quantity of item to the snapshot. An existing line of the same
// kind and id has its quantity increased and its price, stock and names refreshed.
func AddLine(s Snapshot, item LineItem, quantity int, now time.Time) Snapshot {
	lines := cloneLines(s.Lines(item.Kind))

	found := false
	for i := range lines {
		if lines[i].ID == item.ID {
			item.Quantity = ClampQuantity(lines[i].Quantity+quantity, item.LeftInStock)
			lines[i] = item
			found = true
			break
		}
	}

	if !found {
		item.Quantity = ClampQuantity(quantity, item.LeftInStock)
		lines = append(lines, item)
	}

	lines = dropEmpty(lines)
	return s.with(item.Kind, lines, now)
}

// SetLineQuantity sets the quantity of an existing line. Zero removes it.
// Unknown lines leave the snapshot untouched.
func SetLineQuantity(s Snapshot, kind Kind, id int64, quantity int, now time.Time) Snapshot {
	if quantity <= 0 {
		return RemoveLine(s, kind, id, now)
	}

	lines := cloneLines(s.Lines(kind))
	for i := range lines {
		if lines[i].ID == id {
			lines[i].Quantity = ClampQuantity(quantity, lines[i].LeftInStock)
			return s.with(kind, dropEmpty(lines), now)
		}
	}
	return s
}

// RemoveLine drops the line for kind and id
func RemoveLine(s Snapshot, kind Kind, id int64, now time.Time) Snapshot {
	lines := s.Lines(kind)
	kept := make([]LineItem, 0, len(lines))
	for _, item := range lines {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(lines) {
		return s
	}
	return s.with(kind, kept, now)
}

// Merge folds the guest snapshot into the customer snapshot. Quantities of
// matching lines are summed; the guest line wins for price and stock since it
// was fetched more recently.
func Merge(customer, guest Snapshot, now time.Time) Snapshot {
	merged := Snapshot{
		Products:  cloneLines(customer.Products),
		Packages:  cloneLines(customer.Packages),
		UpdatedAt: customer.UpdatedAt,
	}
	for _, item := range guest.Products {
		merged = AddLine(merged, item, item.Quantity, now)
	}
	for _, item := range guest.Packages {
		merged = AddLine(merged, item, item.Quantity, now)
	}
	return merged
}

// Refresh applies fresh catalog data to the lines of s. Lines in gone are
// dropped, lines in fresh take the new price, names and stock and are
// re-clamped, and lines in neither are kept as they are. It reports whether
// any line changed; an unchanged snapshot is returned as is.
func Refresh(s Snapshot, fresh map[Key]LineItem, gone map[Key]bool, now time.Time) (Snapshot, bool) {
	changed := false
	out := Snapshot{UpdatedAt: s.UpdatedAt}
	for _, kind := range []Kind{KindProduct, KindPackage} {
		lines := s.Lines(kind)
		kept := make([]LineItem, 0, len(lines))
		for _, item := range lines {
			key := item.Key()
			if gone[key] {
				changed = true
				continue
			}
			f, ok := fresh[key]
			if !ok {
				kept = append(kept, item)
				continue
			}
			f.ID, f.Kind = item.ID, item.Kind
			f.Quantity = ClampQuantity(item.Quantity, f.LeftInStock)
			if f.Quantity != item.Quantity || f.Price != item.Price || f.LeftInStock != item.LeftInStock {
				changed = true
			}
			if f.Quantity > 0 {
				kept = append(kept, f)
			}
		}
		out = out.with(kind, kept, s.UpdatedAt)
	}
	if !changed {
		return s, false
	}
	out.UpdatedAt = now
	return out, true
}

// RemoveOrdered takes the ordered quantities out of s. Lines added or topped
// up after the order was taken keep the remainder.
func RemoveOrdered(s Snapshot, ordered []LineItem, now time.Time) Snapshot {
	for _, o := range ordered {
		item, ok := s.Find(o.Kind, o.ID)
		if !ok {
			continue
		}
		s = SetLineQuantity(s, o.Kind, o.ID, item.Quantity-o.Quantity, now)
	}
	return s
}

func (s Snapshot) with(kind Kind, lines []LineItem, now time.Time) Snapshot {
	if kind == KindPackage {
		s.Packages = lines
	} else {
		s.Products = lines
	}
	s.UpdatedAt = now
	return s
}

func cloneLines(lines []LineItem) []LineItem {
	out := make([]LineItem, len(lines))
	copy(out, lines)
	return out
}

func dropEmpty(lines []LineItem) []LineItem {
	kept := lines[:0]
	for _, item := range lines {
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	return kept
}
