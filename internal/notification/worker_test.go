package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/dbtest"
	"consult-booking-backend/internal/logger"
	"consult-booking-backend/internal/model"
	"consult-booking-backend/internal/store"
)

// mockSender is a mock implementation of the PushSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// mockMailer records the leads and contacts it was asked to mail about.
type mockMailer struct {
	mu            sync.Mutex
	confirmations []string
	alerts        []string
	contacts      []string
	err           error
	done          chan struct{}
}

func newMockMailer() *mockMailer {
	return &mockMailer{done: make(chan struct{}, 16)}
}

func (m *mockMailer) SendLeadConfirmation(_ context.Context, lead model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, lead.Email)
	return m.err
}

func (m *mockMailer) SendLeadAlert(_ context.Context, lead model.Lead) error {
	m.mu.Lock()
	m.alerts = append(m.alerts, lead.ID)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.err
}

func (m *mockMailer) SendContactAlert(_ context.Context, contact model.Contact) error {
	m.mu.Lock()
	m.contacts = append(m.contacts, contact.ID)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.err
}

func response(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func testLead() model.Lead {
	return model.Lead{
		ID:                 "lead-1",
		FirstName:          "Camille",
		LastName:           "Durand",
		Email:              "camille@example.com",
		Phone:              "+33612345678",
		ProjectType:        catalog.ProjectAIIntegration,
		Budget:             catalog.BudgetOver50k,
		Timeline:           catalog.TimelineUrgent,
		ConsultationDate:   "2026-10-19",
		ConsultationTime:   "09:00",
		Modality:           catalog.ModalityVideo,
		Source:             "website",
		QualificationScore: 100,
	}
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	return store.NewGormStore(dbtest.Open(t))
}

func TestWorkerPool_LeadCreated(t *testing.T) {
	wp := NewWorkerPool(1, 1, newTestStore(t), newMockMailer(), nil, logger.Discard())

	wp.LeadCreated(testLead())

	select {
	case j := <-wp.jobs:
		require.NotNil(t, j.lead)
		assert.Nil(t, j.contact)
		assert.Equal(t, "lead-1", j.lead.ID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DropsWhenQueueFull(t *testing.T) {
	wp := NewWorkerPool(1, 1, newTestStore(t), newMockMailer(), nil, logger.Discard())

	done := make(chan struct{})
	go func() {
		wp.LeadCreated(testLead())
		wp.LeadCreated(testLead())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("LeadCreated blocked on a full queue")
	}
	assert.Len(t, wp.jobs, 1)
}

func TestWorkerPool_ContactReceived(t *testing.T) {
	wp := NewWorkerPool(1, 1, newTestStore(t), newMockMailer(), nil, logger.Discard())

	wp.ContactReceived(testContact())
	wp.ContactReceived(testContact())

	require.Len(t, wp.jobs, 1)
	j := <-wp.jobs
	assert.Nil(t, j.lead)
	require.NotNil(t, j.contact)
	assert.Equal(t, "contact-1", j.contact.ID)
}

func TestWorkerPool_ContactAlertAndPush(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.UpsertPushSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://example.com/push",
		P256DH:   "key",
		Auth:     "auth",
	}))

	mailer := newMockMailer()
	wp := NewWorkerPool(1, 2, st, mailer, &webpush.Options{}, logger.Discard())

	pushed := make(chan pushPayload, 1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			var p pushPayload
			assert.NoError(t, json.Unmarshal(payload, &p))
			pushed <- p
			return response(http.StatusCreated), nil
		},
	}

	runCtx, cancel := context.WithCancel(ctx)
	wp.Start(runCtx)
	wp.ContactReceived(testContact())

	select {
	case p := <-pushed:
		assert.Equal(t, "Nouvelle demande de contact", p.Title)
		assert.Equal(t, "contact-1", p.ContactID)
		assert.Empty(t, p.LeadID)
		assert.Contains(t, p.Body, "Jules Martin")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for push")
	}
	cancel()
	wp.Wait()

	assert.Equal(t, []string{"contact-1"}, mailer.contacts)
	assert.Empty(t, mailer.confirmations)
	assert.Empty(t, mailer.alerts)
}

func TestWorkerPool_SendsEmails(t *testing.T) {
	mailer := newMockMailer()
	wp := NewWorkerPool(2, 4, newTestStore(t), mailer, nil, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	wp.Start(ctx)

	wp.LeadCreated(testLead())

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for emails")
	}
	cancel()
	wp.Wait()

	assert.Equal(t, []string{"camille@example.com"}, mailer.confirmations)
	assert.Equal(t, []string{"lead-1"}, mailer.alerts)
}

func TestWorkerPool_MailFailureStillPushes(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.UpsertPushSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://example.com/push",
		P256DH:   "test_p256dh",
		Auth:     "test_auth",
	}))

	mailer := newMockMailer()
	mailer.err = errors.New("smtp down")
	wp := NewWorkerPool(1, 1, st, mailer, &webpush.Options{}, logger.Discard())

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			assert.Equal(t, "https://example.com/push", sub.Endpoint)
			assert.Equal(t, "test_p256dh", sub.Keys.P256dh)

			var p pushPayload
			assert.NoError(t, json.Unmarshal(payload, &p))
			assert.Equal(t, "lead-1", p.LeadID)
			assert.Contains(t, p.Body, "Camille Durand")
			assert.Contains(t, p.Body, "lundi 19 octobre 2026")
			return response(http.StatusCreated), nil
		},
	}

	wp.processLead(ctx, testLead())
	wg.Wait()

	subs, err := st.ListPushSubscriptions(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	for _, endpoint := range []string{"https://example.com/expired", "https://example.com/alive"} {
		require.NoError(t, st.UpsertPushSubscription(ctx, &model.PushSubscription{
			Endpoint: endpoint,
			P256DH:   "key",
			Auth:     "auth",
		}))
	}

	wp := NewWorkerPool(1, 1, st, NoopMailer{}, &webpush.Options{}, logger.Discard())
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			if sub.Endpoint == "https://example.com/expired" {
				return response(http.StatusGone), nil
			}
			return response(http.StatusCreated), nil
		},
	}

	wp.processLead(ctx, testLead())

	subs, err := st.ListPushSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://example.com/alive", subs[0].Endpoint)
}

func TestWorkerPool_PushDisabled(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.UpsertPushSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://example.com/push",
		P256DH:   "key",
		Auth:     "auth",
	}))

	wp := NewWorkerPool(1, 1, st, NoopMailer{}, nil, logger.Discard())
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			t.Error("push must not be sent when disabled")
			return response(http.StatusCreated), nil
		},
	}

	wp.processLead(ctx, testLead())
}
