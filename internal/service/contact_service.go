package service

import (
	"context"

	"contacts_api/internal/models"
	"contacts_api/internal/repository"
)

// ContactService forwards contact operations to the repository. It holds
// no business rules of its own; scoping and filtering live in the
// repository layer.
type ContactService struct {
	contactRepo repository.Contacts
}

func NewContactService(repo repository.Contacts) *ContactService {
	return &ContactService{contactRepo: repo}
}

var _ Contacts = (*ContactService)(nil)

func (s *ContactService) List(ctx context.Context, skip, limit int, name, surname, email string, userID int) ([]models.Contact, error) {
	return s.contactRepo.List(ctx, repository.ContactFilter{
		UserID:  userID,
		Name:    name,
		Surname: surname,
		Email:   email,
		Skip:    skip,
		Limit:   limit,
	})
}

func (s *ContactService) Get(ctx context.Context, id int64, userID int) (*models.Contact, error) {
	return s.contactRepo.GetByID(ctx, id, userID)
}

func (s *ContactService) Create(ctx context.Context, c models.Contact) (*models.Contact, error) {
	return s.contactRepo.Create(ctx, c)
}

func (s *ContactService) Update(ctx context.Context, id int64, userID int, upd models.ContactUpdate) (*models.Contact, error) {
	return s.contactRepo.Update(ctx, id, userID, upd)
}

func (s *ContactService) Delete(ctx context.Context, id int64, userID int) (bool, error) {
	return s.contactRepo.Delete(ctx, id, userID)
}

func (s *ContactService) Birthdays(ctx context.Context, skip, limit, userID int) ([]models.Contact, error) {
	return s.contactRepo.UpcomingBirthdays(ctx, skip, limit, userID)
}
