// Package notification delivers account notices (recharge and transfer
// mails) off the request path.
package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindRecharge         Kind = "recharge"
	KindTransferReceived Kind = "transfer_received"
	KindTransferSent     Kind = "transfer_sent"
)

// Message is one notice. Recharge notices carry Cashback; transfer notices
// carry Recipient and Sender.
type Message struct {
	Kind      Kind            `json:"kind"`
	To        string          `json:"to"`
	Recipient string          `json:"recipient,omitempty"`
	Sender    string          `json:"sender,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Cashback  decimal.Decimal `json:"cashback"`
}

// Sender delivers a message to its addressee.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Publisher hands a message over for asynchronous delivery. Publish must not
// wait for the delivery itself.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Service is the default Sender. It writes the rendered notice to the log.
type Service struct{}

// NewService creates a new notification service.
func NewService() *Service { return &Service{} }

func (s *Service) Send(ctx context.Context, msg Message) error {
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}
	log.Printf("Notify %s: %s | %s", msg.To, subject, body)
	return nil
}

// Render produces the subject and body of msg.
func Render(msg Message) (subject, body string, err error) {
	switch msg.Kind {
	case KindRecharge:
		subject = "Wallet recharged"
		body = fmt.Sprintf("Your wallet was recharged with %s.", msg.Amount.StringFixed(2))
		if msg.Cashback.IsPositive() {
			body += fmt.Sprintf(" You earned %s cashback!", msg.Cashback.StringFixed(2))
		}
	case KindTransferReceived:
		subject = "Money received"
		body = fmt.Sprintf("%s sent you %s.", msg.Sender, msg.Amount.StringFixed(2))
	case KindTransferSent:
		subject = "Money sent"
		body = fmt.Sprintf("You sent %s to %s.", msg.Amount.StringFixed(2), msg.Recipient)
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", msg.Kind)
	}
	return subject, body, nil
}
