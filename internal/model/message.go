// Package model defines the core domain models used throughout the application.
package model

import "time"

// InboundMessage is a raw SMS handed to us by the platform's message
// collector. It is immutable; the engine never mutates or stores it.
type InboundMessage struct {
	ReceivedAt time.Time
	Sender     string
	Body       string
}
