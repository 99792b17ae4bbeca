// Package todo holds the state of a to-do list: ordered items and at most
// one item being edited.
//
// [List] is the state holder. It never touches storage; callers load items
// from a [Store], mutate the list and save it back:
//
//	items, _ := store.Load(ctx)
//	l := todo.NewList(items...)
//	l.Add(item)
//	_ = store.Save(ctx, l.Items())
package todo

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/stagger/pkg/errors"
)

// Icon decorates an item.
type Icon int

// Icons. The zero value is IconSquare.
const (
	IconSquare Icon = iota
	IconDone
	IconEvent
	IconPrivacy
	IconTrash
)

var iconNames = [...]string{"square", "done", "event", "privacy", "trash"}

// Icons lists every icon in declaration order.
var Icons = []Icon{IconSquare, IconDone, IconEvent, IconPrivacy, IconTrash}

// String returns the icon's name.
func (i Icon) String() string {
	if i < 0 || int(i) >= len(iconNames) {
		return fmt.Sprintf("icon(%d)", int(i))
	}
	return iconNames[i]
}

// Glyph returns a one-character terminal rendering of the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconDone:
		return "✓"
	case IconEvent:
		return "◷"
	case IconPrivacy:
		return "●"
	case IconTrash:
		return "✗"
	default:
		return "□"
	}
}

// ParseIcon parses an icon name. Matching is case-insensitive and the empty
// string yields IconSquare.
func ParseIcon(s string) (Icon, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return IconSquare, nil
	}
	for i, name := range iconNames {
		if s == name {
			return Icon(i), nil
		}
	}
	return IconSquare, errors.New(errors.ErrCodeInvalidInput,
		"unknown icon %q (want one of %s)", s, strings.Join(iconNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (i Icon) MarshalText() ([]byte, error) {
	if i < 0 || int(i) >= len(iconNames) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid icon %d", int(i))
	}
	return []byte(iconNames[i]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Icon) UnmarshalText(b []byte) error {
	v, err := ParseIcon(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// Item is one entry of a to-do list. Items are compared by ID.
type Item struct {
	ID   uuid.UUID `json:"id"`
	Task string    `json:"task"`
	Icon Icon      `json:"icon"`
}

// NewItem creates an item with a fresh random ID.
func NewItem(task string, icon Icon) (Item, error) {
	if err := errors.ValidateTask(task); err != nil {
		return Item{}, err
	}
	return Item{ID: uuid.New(), Task: strings.TrimSpace(task), Icon: icon}, nil
}
