package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"contacts_api/internal/models"
)

// mockMailer records digests per recipient.
type mockMailer struct {
	mu   sync.Mutex
	sent map[string][]models.Contact
}

func (m *mockMailer) SendBirthdayDigest(_ context.Context, to string, contacts []models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = map[string][]models.Contact{}
	}
	m.sent[to] = append(m.sent[to], contacts...)
	return nil
}

func TestReminderService_GroupsDigestsByOwner(t *testing.T) {
	repo := &mockContactRepo{
		digestResp: []models.BirthdayReminder{
			{OwnerEmail: "a@example.com", Contact: models.Contact{ID: 1, FirstName: "Ada"}},
			{OwnerEmail: "a@example.com", Contact: models.Contact{ID: 2, FirstName: "Alan"}},
			{OwnerEmail: "b@example.com", Contact: models.Contact{ID: 3, FirstName: "Grace"}},
		},
	}
	mail := &mockMailer{}
	svc := NewReminderService(repo, mail, nil)

	svc.sendDigests(context.Background())

	if len(mail.sent) != 2 {
		t.Fatalf("expected digests for 2 owners, got %d", len(mail.sent))
	}
	if got := len(mail.sent["a@example.com"]); got != 2 {
		t.Fatalf("owner a: expected 2 contacts, got %d", got)
	}
	if got := len(mail.sent["b@example.com"]); got != 1 {
		t.Fatalf("owner b: expected 1 contact, got %d", got)
	}
}

func TestReminderService_RunStopsOnCancel(t *testing.T) {
	repo := &mockContactRepo{}
	svc := NewReminderService(repo, &mockMailer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	// let at least one tick fire, then cancel
	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}

	if repo.digestRuns == 0 {
		t.Fatal("expected at least one digest fetch")
	}
}
