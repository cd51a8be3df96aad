package services

import (
	"context"
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// APNSNotifier sends push notifications through Apple's push service.
// Implements PushSender for the message service.
type APNSNotifier struct {
	client *apns2.Client
	topic  string
}

// NewAPNSNotifier creates a notifier from a PEM certificate
func NewAPNSNotifier(certPath, certPassword, topic string, production bool) (*APNSNotifier, error) {
	cert, err := certificate.FromPemFile(certPath, certPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNSNotifier{
		client: client,
		topic:  topic,
	}, nil
}

// Push sends one alert notification to a device token
func (n *APNSNotifier) Push(ctx context.Context, deviceToken, title, body string) error {
	p := payload.NewPayload().
		AlertTitle(title).
		AlertBody(body).
		Sound("default")

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       n.topic,
		Payload:     p,
	}

	res, err := n.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}
	return nil
}
