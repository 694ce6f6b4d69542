package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"

	"contacts_api/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, email, passwordHash string) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// ContactFilter narrows a contact listing. UserID is mandatory: every
// contact query is scoped to its owner.
type ContactFilter struct {
	UserID  int
	Name    string // exact match on first_name, empty = no filter
	Surname string // exact match on last_name, empty = no filter
	Email   string // exact match on email, empty = no filter
	Skip    int
	Limit   int
}

type Contacts interface {
	List(ctx context.Context, f ContactFilter) ([]models.Contact, error)
	GetByID(ctx context.Context, id int64, userID int) (*models.Contact, error)
	Create(ctx context.Context, c models.Contact) (*models.Contact, error)
	Update(ctx context.Context, id int64, userID int, upd models.ContactUpdate) (*models.Contact, error)
	Delete(ctx context.Context, id int64, userID int) (bool, error)
	UpcomingBirthdays(ctx context.Context, skip, limit, userID int) ([]models.Contact, error)
	BirthdayDigest(ctx context.Context) ([]models.BirthdayReminder, error)
}

// UserCache is a read-through cache for user lookups on authenticated
// requests. Implementations must tolerate a miss returning (nil, nil).
type UserCache interface {
	Get(ctx context.Context, id int) (*models.User, error)
	Set(ctx context.Context, u *models.User) error
}

type Repository struct {
	Auth     Authorization
	Contacts Contacts
	Users    UserCache
}

// NewRepository wires the SQL repositories. The redis client is optional;
// when nil the user cache stays nil and callers skip it.
func NewRepository(db *sql.DB, rdb *redis.Client, userTTL time.Duration) *Repository {
	r := &Repository{
		Auth:     NewUserRepository(db),
		Contacts: NewContactRepository(db),
	}
	if rdb != nil {
		r.Users = NewRedisUserCache(rdb, userTTL)
	}
	return r
}
