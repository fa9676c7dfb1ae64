package delivery

import (
	"context"
	"sync"

	dErrors "walletgate/pkg/domain-errors"
)

// Inbox is an in-memory Transport for tests and local development. Delivered
// messages are retained per principal so tests can read the code back the way
// an end user would read their mail.
type Inbox struct {
	mu       sync.Mutex
	messages map[string][]Message
	waiters  map[string][]chan Message
	failing  bool
}

// NewInbox constructs an empty in-memory delivery transport.
func NewInbox() *Inbox {
	return &Inbox{
		messages: make(map[string][]Message),
		waiters:  make(map[string][]chan Message),
	}
}

// SetFailing makes every subsequent delivery fail. Used to exercise the
// DeliveryError path.
func (i *Inbox) SetFailing(failing bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.failing = failing
}

func (i *Inbox) Deliver(_ context.Context, msg Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.failing {
		return dErrors.New(dErrors.CodeDeliveryError, "transport refused message")
	}
	i.messages[msg.Principal] = append(i.messages[msg.Principal], msg)
	for _, w := range i.waiters[msg.Principal] {
		w <- msg
	}
	delete(i.waiters, msg.Principal)
	return nil
}

// Last returns the most recently delivered message for the principal.
func (i *Inbox) Last(principal string) (Message, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	msgs := i.messages[principal]
	if len(msgs) == 0 {
		return Message{}, false
	}
	return msgs[len(msgs)-1], true
}

// WaitForMessage blocks until a new message arrives for the principal or the
// context expires. Messages already delivered are not replayed.
func (i *Inbox) WaitForMessage(ctx context.Context, principal string) (Message, error) {
	ch := make(chan Message, 1)
	i.mu.Lock()
	i.waiters[principal] = append(i.waiters[principal], ch)
	i.mu.Unlock()

	select {
	case msg := <-ch:
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

var _ Transport = (*Inbox)(nil)
