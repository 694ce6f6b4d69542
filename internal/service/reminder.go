package service

import (
	"context"
	"time"

	"contacts_api/internal/logger"
	"contacts_api/internal/mailer"
	"contacts_api/internal/models"
	"contacts_api/internal/repository"
)

// ReminderService periodically mails each user a digest of contacts whose
// birthday falls within the upcoming week.
type ReminderService struct {
	contactRepo repository.Contacts
	mail        mailer.Mailer
	log         *logger.Logger
}

func NewReminderService(contactRepo repository.Contacts, mail mailer.Mailer, log *logger.Logger) *ReminderService {
	return &ReminderService{
		contactRepo: contactRepo,
		mail:        mail,
		log:         log,
	}
}

var _ Reminder = (*ReminderService)(nil)

// Run ticks at the given interval until ctx is canceled. One digest is
// sent immediately on start so a restart does not skip a day.
func (s *ReminderService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	s.sendDigests(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sendDigests(ctx)
		}
	}
}

// sendDigests fetches the upcoming-birthday digest and sends one email per
// owner. A failure for one owner does not block the others.
func (s *ReminderService) sendDigests(ctx context.Context) {
	reminders, err := s.contactRepo.BirthdayDigest(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("reminder_digest_failed", "err", err)
		}
		return
	}
	if len(reminders) == 0 {
		return
	}

	for owner, contacts := range groupByOwner(reminders) {
		if err := s.mail.SendBirthdayDigest(ctx, owner, contacts); err != nil {
			if s.log != nil {
				s.log.Errorw("reminder_send_failed", "owner", owner, "err", err)
			}
			continue
		}
		if s.log != nil {
			s.log.Infow("reminder_sent", "owner", owner, "contacts", len(contacts))
		}
	}
}

func groupByOwner(reminders []models.BirthdayReminder) map[string][]models.Contact {
	byOwner := make(map[string][]models.Contact, len(reminders))
	for _, r := range reminders {
		byOwner[r.OwnerEmail] = append(byOwner[r.OwnerEmail], r.Contact)
	}
	return byOwner
}
