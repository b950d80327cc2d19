package view

import (
	"strings"

	"github.com/zostay/go-postal/message/header"
)

// Priority is the importance of a message.
type Priority int

const (
	// PriorityNormal is the default and adds no headers to the message.
	PriorityNormal Priority = iota

	// PriorityLow marks the message as non-urgent.
	PriorityLow

	// PriorityHigh marks the message as urgent.
	PriorityHigh
)

// ParsePriority reads a priority name. Names are case-insensitive: low,
// non-urgent, normal, medium, high, and urgent are accepted.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "non-urgent", "nonurgent":
		return PriorityLow, nil
	case "normal", "medium":
		return PriorityNormal, nil
	case "high", "urgent":
		return PriorityHigh, nil
	}

	return PriorityNormal, ErrInvalidPriority
}

// String returns the name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	default:
		return "normal"
	}
}

// apply writes the headers that mail clients use to show the priority.
func (p Priority) apply(h *header.Header) {
	switch p {
	case PriorityLow:
		h.Set(header.Importance, "low")
		h.Set(header.Priority, "non-urgent")
		h.Set(header.XPriority, "5 (Lowest)")
		h.Set(header.XMSMailPriority, "Low")
	case PriorityHigh:
		h.Set(header.Importance, "high")
		h.Set(header.Priority, "urgent")
		h.Set(header.XPriority, "1 (Highest)")
		h.Set(header.XMSMailPriority, "High")
	}
}
