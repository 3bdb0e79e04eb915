package services

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const expoPushURL = "https://exp.host/--/api/v2/push/send"

// Notifier is the push-delivery contract. Dispatch is fire-and-forget:
// implementations log failures and never surface them to the state
// transition that triggered the notification.
type Notifier interface {
	NotifyAll(ctx context.Context, title, body string, data map[string]string)
	NotifyUser(ctx context.Context, email, title, body string, data map[string]string)
}

type expoMessage struct {
	To       []string          `json:"to"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Sound    string            `json:"sound"`
	Priority string            `json:"priority"`
	Data     map[string]string `json:"data,omitempty"`
}

// ExpoNotifier delivers token-addressed pushes through the Expo push
// HTTP endpoint.
type ExpoNotifier struct {
	client *resty.Client
	staff  *StaffService
	log    *logrus.Logger
}

func NewExpoNotifier(staff *StaffService, log *logrus.Logger) *ExpoNotifier {
	client := resty.New().
		SetBaseURL(expoPushURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &ExpoNotifier{client: client, staff: staff, log: log}
}

func (n *ExpoNotifier) NotifyAll(ctx context.Context, title, body string, data map[string]string) {
	tokens, err := n.staff.PushTokens(ctx)
	if err != nil {
		n.log.WithError(err).Warn("push token lookup failed, skipping notification")
		return
	}
	n.send(ctx, tokens, title, body, data)
}

func (n *ExpoNotifier) NotifyUser(ctx context.Context, email, title, body string, data map[string]string) {
	token, err := n.staff.PushTokenFor(ctx, email)
	if err != nil {
		n.log.WithError(err).WithField("email", email).Warn("push token lookup failed, skipping notification")
		return
	}
	if token == "" {
		return
	}
	n.send(ctx, []string{token}, title, body, data)
}

func (n *ExpoNotifier) send(ctx context.Context, tokens []string, title, body string, data map[string]string) {
	if len(tokens) == 0 {
		return
	}

	msg := expoMessage{To: tokens, Title: title, Body: body, Sound: "default", Priority: "high", Data: data}
	resp, err := n.client.R().SetContext(ctx).SetBody(msg).Post("")
	if err != nil {
		n.log.WithError(err).Warn("push send failed")
		return
	}
	if resp.IsError() {
		n.log.WithFields(logrus.Fields{"status": resp.StatusCode(), "body": resp.String()}).Warn("push endpoint rejected message")
		return
	}
	n.log.WithFields(logrus.Fields{"tokens": len(tokens), "title": title}).Debug("push dispatched")
}

// NopNotifier drops every notification. Used when push delivery is
// disabled and in tests.
type NopNotifier struct{}

func (NopNotifier) NotifyAll(ctx context.Context, title, body string, data map[string]string)  {}
func (NopNotifier) NotifyUser(ctx context.Context, email, title, body string, data map[string]string) {
}
