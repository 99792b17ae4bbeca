package io

import (
	"github.com/matzehuels/stagger/pkg/grid"
)

// Request is a serialized layout request.
type Request struct {
	Rows        int              `json:"rows,omitempty" toml:"rows,omitempty"`
	Constraints grid.Constraints `json:"constraints" toml:"constraints"`
	Children    []Child          `json:"children" toml:"children"`
}

// Child is a measured child with an optional display label.
type Child struct {
	Label  string `json:"label,omitempty" toml:"label,omitempty"`
	Width  int    `json:"width" toml:"width"`
	Height int    `json:"height" toml:"height"`
}

// Boxes returns the measured sizes of the children in order.
func (r Request) Boxes() []grid.Box {
	out := make([]grid.Box, len(r.Children))
	for i, c := range r.Children {
		out[i] = grid.Box{Width: c.Width, Height: c.Height}
	}
	return out
}

// Labels returns the child labels in order. Unlabelled children get an empty string.
func (r Request) Labels() []string {
	out := make([]string, len(r.Children))
	for i, c := range r.Children {
		out[i] = c.Label
	}
	return out
}

// WithDefaults returns a copy of r with missing fields taken from rows and c.
// Rows is missing when zero. A constraint axis is missing when both bounds are
// zero; a max of zero next to a positive min is missing on its own, since no
// container could satisfy it.
func (r Request) WithDefaults(rows int, c grid.Constraints) Request {
	out := r
	if out.Rows == 0 {
		out.Rows = rows
	}
	oc := &out.Constraints
	oc.MinWidth, oc.MaxWidth = axisDefaults(oc.MinWidth, oc.MaxWidth, c.MinWidth, c.MaxWidth)
	oc.MinHeight, oc.MaxHeight = axisDefaults(oc.MinHeight, oc.MaxHeight, c.MinHeight, c.MaxHeight)
	out.Children = append([]Child(nil), r.Children...)
	return out
}

func axisDefaults(minV, maxV, defMin, defMax int) (int, int) {
	switch {
	case minV == 0 && maxV == 0:
		return defMin, defMax
	case maxV == 0 && minV > 0:
		return minV, defMax
	}
	return minV, maxV
}

// Compute runs the grid engine on the request.
func (r Request) Compute() (grid.Result, error) {
	return grid.Compute(r.Rows, r.Constraints, r.Boxes())
}

// Chip sizing for [Topics], in layout units.
const (
	TopicCharWidth = 8
	TopicPadding   = 16
	TopicHeight    = 48
)

var topics = []string{
	"Arts & Crafts", "Beauty", "Books", "Business", "Comics", "Culinary",
	"Design", "Fashion", "Film", "History", "Maths", "Music", "People", "Philosophy",
	"Religion", "Social sciences", "Technology", "TV", "Writing",
}

// Topics returns the topic-chip demo request: nineteen labelled chips whose
// width follows the label length, laid out in the given number of rows.
func Topics(rows int) Request {
	children := make([]Child, len(topics))
	for i, t := range topics {
		children[i] = Child{
			Label:  t,
			Width:  len([]rune(t))*TopicCharWidth + 2*TopicPadding,
			Height: TopicHeight,
		}
	}
	return Request{Rows: rows, Children: children}
}
