package todo

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/stagger/pkg/errors"
)

// noEdit marks that no item is being edited.
const noEdit = -1

// List is an ordered to-do list with an optional current edit.
// A List is not safe for concurrent use.
type List struct {
	items []Item
	edit  int
}

// NewList returns a list holding a copy of items and no edit in progress.
func NewList(items ...Item) *List {
	return &List{items: slices.Clone(items), edit: noEdit}
}

// Add appends item.
func (l *List) Add(item Item) {
	l.items = append(l.items, item)
}

// Remove deletes the item with the given id and ends any edit in progress,
// whether or not the item was found. It reports whether an item was removed.
func (l *List) Remove(id uuid.UUID) bool {
	l.edit = noEdit
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

// SelectForEdit starts editing the item with the given id.
func (l *List) SelectForEdit(id uuid.UUID) error {
	i := l.index(id)
	if i < 0 {
		return errors.New(errors.ErrCodeItemNotFound, "no item with id %s", id)
	}
	l.edit = i
	return nil
}

// CurrentEdit returns the item being edited.
func (l *List) CurrentEdit() (Item, bool) {
	if l.edit < 0 || l.edit >= len(l.items) {
		return Item{}, false
	}
	return l.items[l.edit], true
}

// CommitEdit replaces the item being edited with item. The replacement must
// keep the edited item's ID. The edit stays open so further changes can be
// committed.
func (l *List) CommitEdit(item Item) error {
	current, ok := l.CurrentEdit()
	if !ok {
		return errors.New(errors.ErrCodeNoEditInProgress, "no item is being edited")
	}
	if current.ID != item.ID {
		return errors.New(errors.ErrCodeEditMismatch,
			"can only change the item being edited (%s), got %s", current.ID, item.ID)
	}
	l.items[l.edit] = item
	return nil
}

// CancelEdit ends any edit in progress.
func (l *List) CancelEdit() {
	l.edit = noEdit
}

// Items returns a copy of the items in order.
func (l *List) Items() []Item {
	return slices.Clone(l.items)
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// Find returns the item with the given id.
func (l *List) Find(id uuid.UUID) (Item, bool) {
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	return Item{}, false
}

func (l *List) index(id uuid.UUID) int {
	return slices.IndexFunc(l.items, func(it Item) bool { return it.ID == id })
}
