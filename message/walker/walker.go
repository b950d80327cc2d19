// Package walker visits every part of a message tree.
package walker

import (
	"github.com/zostay/go-postal/message"
)

// PartWalker is a function that can be processed for each part of a message.
// The depth of the message itself is 0 and i is the index of the part within
// its parent.
type PartWalker func(depth, i int, part message.Part) error

// Walk performs a depth first search for all the parts of a message starting
// with the message itself. It calls the PartWalker for each part of the
// message. If the PartWalker returns an error, then processing stops
// immediately and the error is returned.
func (w PartWalker) Walk(msg message.Generic) error {
	type part struct {
		depth int
		i     int
		part  message.Part
	}

	openStack := make([]part, 0, 10)

	pushStack := func(depth int, msg message.Part) {
		parts := msg.GetParts()
		for i := len(parts) - 1; i >= 0; i-- {
			openStack = append(openStack, part{depth, i, parts[i]})
		}
	}

	popStack := func() part {
		end := len(openStack) - 1
		p := openStack[end]
		openStack = openStack[:end]
		return p
	}

	openStack = append(openStack, part{0, 0, msg})
	for len(openStack) > 0 {
		p := popStack()
		if err := w(p.depth, p.i, p.part); err != nil {
			return err
		}
		pushStack(p.depth+1, p.part)
	}

	return nil
}

// WalkOpaque calls the PartWalker for each leaf part only.
func (w PartWalker) WalkOpaque(msg message.Generic) error {
	var opw PartWalker = func(depth, i int, part message.Part) error {
		if part.IsMultipart() {
			return nil
		}
		return w(depth, i, part)
	}
	return opw.Walk(msg)
}

// WalkMultipart calls the PartWalker for each branch part only.
func (w PartWalker) WalkMultipart(msg message.Generic) error {
	var mlw PartWalker = func(depth, i int, part message.Part) error {
		if !part.IsMultipart() {
			return nil
		}
		return w(depth, i, part)
	}
	return mlw.Walk(msg)
}
