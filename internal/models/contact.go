package models

import "time"

// Contact is a single address-book entry. A contact always belongs to
// exactly one user and is never visible outside that user's scope.
type Contact struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Birthday  time.Time `json:"birthday"`
	UserID    int       `json:"-"`
}

// ContactUpdate carries a partial update. Only non-nil fields are applied;
// nil means "leave this column untouched".
type ContactUpdate struct {
	FirstName *string    `json:"first_name,omitempty"`
	LastName  *string    `json:"last_name,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u ContactUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil && u.Birthday == nil
}

// BirthdayReminder pairs an upcoming-birthday contact with its owner's
// email address, for the reminder digest job.
type BirthdayReminder struct {
	OwnerEmail string  `json:"owner_email"`
	Contact    Contact `json:"contact"`
}
