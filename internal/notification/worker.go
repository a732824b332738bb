package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"

	"consult-booking-backend/internal/metrics"
	"consult-booking-backend/internal/model"
)

// PushSender defines the interface for sending a web push notification.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of PushSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Subscriptions is the part of the store the pool needs.
type Subscriptions interface {
	ListPushSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

// job is one unit of notification work. Exactly one field is set.
type job struct {
	lead    *model.Lead
	contact *model.Contact
}

// WorkerPool sends the notifications for new leads and contact requests in
// the background.
type WorkerPool struct {
	size    int
	jobs    chan job
	subs    Subscriptions
	mailer  Mailer
	webpush *webpush.Options
	sender  PushSender
	log     *slog.Logger
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool. A nil webpushOptions disables
// push notifications.
func NewWorkerPool(size, queueSize int, subs Subscriptions, mailer Mailer, webpushOptions *webpush.Options, log *slog.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = size
	}
	if mailer == nil {
		mailer = NoopMailer{}
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan job, queueSize),
		subs:    subs,
		mailer:  mailer,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	wp.log.Debug("notification worker started", "worker", id)
	for {
		select {
		case j := <-wp.jobs:
			wp.process(ctx, id, j)
		case <-ctx.Done():
			wp.log.Debug("notification worker shutting down", "worker", id)
			return
		}
	}
}

// LeadCreated queues the notifications for lead. It never blocks: when the
// queue is full the job is dropped and logged.
func (wp *WorkerPool) LeadCreated(lead model.Lead) {
	wp.enqueue(job{lead: &lead}, "lead_id", lead.ID)
}

// ContactReceived queues the admin alerts for a contact request, with the
// same drop policy as LeadCreated.
func (wp *WorkerPool) ContactReceived(contact model.Contact) {
	wp.enqueue(job{contact: &contact}, "contact_id", contact.ID)
}

func (wp *WorkerPool) enqueue(j job, idKey, id string) {
	select {
	case wp.jobs <- j:
	default:
		metrics.RecordNotification(metrics.ChannelEmail, metrics.StatusDropped)
		wp.log.Warn("notification queue full, dropping notification", idKey, id)
	}
}

func (wp *WorkerPool) process(ctx context.Context, worker int, j job) {
	switch {
	case j.lead != nil:
		wp.log.Debug("notification worker processing lead", "worker", worker, "lead_id", j.lead.ID)
		wp.processLead(ctx, *j.lead)
	case j.contact != nil:
		wp.log.Debug("notification worker processing contact", "worker", worker, "contact_id", j.contact.ID)
		wp.processContact(ctx, *j.contact)
	}
}

func (wp *WorkerPool) processLead(ctx context.Context, lead model.Lead) {
	wp.sendMail(ctx, "client confirmation", "lead_id", lead.ID, func(ctx context.Context) error {
		return wp.mailer.SendLeadConfirmation(ctx, lead)
	})
	wp.sendMail(ctx, "admin alert", "lead_id", lead.ID, func(ctx context.Context) error {
		return wp.mailer.SendLeadAlert(ctx, lead)
	})
	if wp.webpush != nil {
		wp.pushAll(ctx, pushPayload{
			Title:  "Nouvelle demande de consultation",
			Body:   leadSummary(lead),
			LeadID: lead.ID,
		})
	}
}

func (wp *WorkerPool) processContact(ctx context.Context, contact model.Contact) {
	wp.sendMail(ctx, "contact alert", "contact_id", contact.ID, func(ctx context.Context) error {
		return wp.mailer.SendContactAlert(ctx, contact)
	})
	if wp.webpush != nil {
		wp.pushAll(ctx, pushPayload{
			Title:     "Nouvelle demande de contact",
			Body:      contactSummary(contact),
			ContactID: contact.ID,
		})
	}
}

func (wp *WorkerPool) sendMail(ctx context.Context, kind, idKey, id string, send func(context.Context) error) {
	if err := send(ctx); err != nil {
		metrics.RecordNotification(metrics.ChannelEmail, metrics.StatusFailed)
		wp.log.Error("failed to send email", "kind", kind, idKey, id, "error", err)
		return
	}
	metrics.RecordNotification(metrics.ChannelEmail, metrics.StatusSent)
}

type pushPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	LeadID    string `json:"leadId,omitempty"`
	ContactID string `json:"contactId,omitempty"`
}

func (wp *WorkerPool) pushAll(ctx context.Context, p pushPayload) {
	subscriptions, err := wp.subs.ListPushSubscriptions(ctx)
	if err != nil {
		wp.log.Error("failed to list push subscriptions", "error", err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(p)
	if err != nil {
		wp.log.Error("failed to encode push payload", "error", err)
		return
	}

	wp.log.Debug("sending push notifications", "count", len(subscriptions), "title", p.Title)
	for _, sub := range subscriptions {
		wp.sendPush(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendPush(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		metrics.RecordNotification(metrics.ChannelPush, metrics.StatusFailed)
		wp.log.Error("failed to send push notification", "endpoint", sub.Endpoint, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		metrics.RecordNotification(metrics.ChannelPush, metrics.StatusFailed)
		wp.log.Info("push subscription expired, deleting", "endpoint", sub.Endpoint)
		if err := wp.subs.DeletePushSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Error("failed to delete expired subscription", "endpoint", sub.Endpoint, "error", err)
		}
		return
	}
	if resp.StatusCode >= 400 {
		metrics.RecordNotification(metrics.ChannelPush, metrics.StatusFailed)
		wp.log.Warn("push service rejected notification", "endpoint", sub.Endpoint, "status", resp.StatusCode)
		return
	}
	metrics.RecordNotification(metrics.ChannelPush, metrics.StatusSent)
}
