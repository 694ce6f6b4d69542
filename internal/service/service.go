package service

import (
	"context"
	"time"

	"contacts_api/internal/config"
	"contacts_api/internal/logger"
	"contacts_api/internal/mailer"
	"contacts_api/internal/models"
	"contacts_api/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, email, password string) (*models.User, error)
	GenerateToken(ctx context.Context, email, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	CurrentUser(ctx context.Context, id int) (*models.User, error)
}

// Contacts exposes the per-user address book operations.
type Contacts interface {
	List(ctx context.Context, skip, limit int, name, surname, email string, userID int) ([]models.Contact, error)
	Get(ctx context.Context, id int64, userID int) (*models.Contact, error)
	Create(ctx context.Context, c models.Contact) (*models.Contact, error)
	Update(ctx context.Context, id int64, userID int, upd models.ContactUpdate) (*models.Contact, error)
	Delete(ctx context.Context, id int64, userID int) (bool, error)
	Birthdays(ctx context.Context, skip, limit, userID int) ([]models.Contact, error)
}

// Reminder runs the background loop that mails upcoming-birthday digests.
// Stop via context cancellation in main() for graceful shutdown.
type Reminder interface {
	Run(ctx context.Context, tick time.Duration)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Contacts
	Reminder
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg *config.Config, m mailer.Mailer, log *logger.Logger) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Auth, repos.Users, cfg.Auth),
		Contacts:      NewContactService(repos.Contacts),
		Reminder:      NewReminderService(repos.Contacts, m, log),
	}
}
