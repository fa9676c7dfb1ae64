// Package delivery defines the out-of-band OTP delivery boundary. The wallet
// core never sees transport details; it hands a rendered message to a
// Transport and treats refusal as DeliveryError.
package delivery

import "context"

// Message is a rendered out-of-band message ready for delivery.
type Message struct {
	Principal string
	Subject   string
	Body      string
}

// Transport delivers rendered OTP messages to a principal.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}
