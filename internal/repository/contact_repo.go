package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"contacts_api/internal/models"
)

type ContactRepository struct {
	db *sql.DB

	// now is the clock used for the birthday window; overridable in tests.
	now func() time.Time
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db, now: time.Now}
}

var _ Contacts = (*ContactRepository)(nil)

const contactColumns = "id, first_name, last_name, email, birthday, user_id"

const (
	insertContactSQL = `INSERT INTO contacts (first_name, last_name, email, birthday, user_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	selectContactSQL = `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`

	deleteContactSQL = `DELETE FROM contacts WHERE id = $1 AND user_id = $2`
)

// How far ahead the upcoming-birthday window reaches, inclusive on both ends.
const birthdayWindowDays = 7

const mmddLayout = "01-02"

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	var c models.Contact
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Birthday, &c.UserID); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns the user's contacts, optionally narrowed by exact-match
// field filters, with pagination always applied.
func (r *ContactRepository) List(ctx context.Context, f ContactFilter) ([]models.Contact, error) {
	conds := []string{"user_id = $1"}
	args := []any{f.UserID}

	addCond := func(column, value string) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if f.Name != "" {
		addCond("first_name", f.Name)
	}
	if f.Surname != "" {
		addCond("last_name", f.Surname)
	}
	if f.Email != "" {
		addCond("email", f.Email)
	}

	args = append(args, f.Skip, f.Limit)
	q := fmt.Sprintf("SELECT %s FROM contacts WHERE %s ORDER BY id OFFSET $%d LIMIT $%d",
		contactColumns, strings.Join(conds, " AND "), len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts for user %d: %w", f.UserID, err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// GetByID returns the contact matching both id and owner, or (nil, nil).
func (r *ContactRepository) GetByID(ctx context.Context, id int64, userID int) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, selectContactSQL, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select contact id=%d: %w", id, err)
	}
	return c, nil
}

// Create persists a new contact for its owner and returns it with the
// generated id populated.
func (r *ContactRepository) Create(ctx context.Context, c models.Contact) (*models.Contact, error) {
	err := r.db.QueryRowContext(ctx, insertContactSQL,
		c.FirstName, c.LastName, c.Email, c.Birthday, c.UserID).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert contact for user %d: %w", c.UserID, err)
	}
	return &c, nil
}

// Update applies only the fields set in upd to the contact scoped to its
// owner. A payload with no fields returns the current row unchanged.
// Returns (nil, nil) when the (id, owner) pair does not exist.
func (r *ContactRepository) Update(ctx context.Context, id int64, userID int, upd models.ContactUpdate) (*models.Contact, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id, userID)
	}

	var (
		sets []string
		args []any
	)
	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.FirstName != nil {
		addSet("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		addSet("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		addSet("email", *upd.Email)
	}
	if upd.Birthday != nil {
		addSet("birthday", *upd.Birthday)
	}

	args = append(args, id, userID)
	q := fmt.Sprintf("UPDATE contacts SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args)-1, len(args), contactColumns)

	c, err := scanContact(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update contact id=%d: %w", id, err)
	}
	return c, nil
}

// Delete removes the contact scoped to its owner. Returns false when
// nothing matched.
func (r *ContactRepository) Delete(ctx context.Context, id int64, userID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteContactSQL, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete contact id=%d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for contact id=%d: %w", id, err)
	}
	return n > 0, nil
}

// birthdayWindow returns the inclusive MM-DD bounds of the forward-looking
// window [today, today+days]. When the window crosses the year end the
// returned end sorts before the start and callers must split the range.
func birthdayWindow(today time.Time, days int) (start, end string) {
	return today.Format(mmddLayout), today.AddDate(0, 0, days).Format(mmddLayout)
}

// birthdayCond builds the SQL condition matching birthdays whose month/day
// falls inside [start, end], ignoring the birth year. MM-DD strings compare
// lexicographically in calendar order, so any in-year window is a single
// BETWEEN; a window wrapping December into January splits into two ranges.
func birthdayCond(column, start, end string, args []any) (string, []any) {
	args = append(args, start, end)
	mmdd := fmt.Sprintf("to_char(%s, 'MM-DD')", column)
	if end < start {
		return fmt.Sprintf("(%s >= $%d OR %s <= $%d)", mmdd, len(args)-1, mmdd, len(args)), args
	}
	return fmt.Sprintf("%s BETWEEN $%d AND $%d", mmdd, len(args)-1, len(args)), args
}

// UpcomingBirthdays returns the user's contacts whose birthday falls within
// the next seven calendar days, including today and the boundary day.
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, skip, limit, userID int) ([]models.Contact, error) {
	start, end := birthdayWindow(r.now(), birthdayWindowDays)

	args := []any{userID}
	cond, args := birthdayCond("birthday", start, end, args)

	args = append(args, skip, limit)
	q := fmt.Sprintf("SELECT %s FROM contacts WHERE user_id = $1 AND %s "+
		"ORDER BY to_char(birthday, 'MM-DD'), id OFFSET $%d LIMIT $%d",
		contactColumns, cond, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("upcoming birthdays for user %d: %w", userID, err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// BirthdayDigest returns every upcoming-birthday contact joined with its
// owner's email, ordered so one owner's contacts are adjacent. Used by the
// reminder job, which is the only caller that crosses user scopes.
func (r *ContactRepository) BirthdayDigest(ctx context.Context) ([]models.BirthdayReminder, error) {
	start, end := birthdayWindow(r.now(), birthdayWindowDays)

	var args []any
	cond, args := birthdayCond("c.birthday", start, end, args)

	q := fmt.Sprintf("SELECT u.email, c.id, c.first_name, c.last_name, c.email, c.birthday, c.user_id "+
		"FROM contacts c JOIN users u ON u.id = c.user_id WHERE %s "+
		"ORDER BY u.email, to_char(c.birthday, 'MM-DD'), c.id", cond)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("birthday digest: %w", err)
	}
	defer rows.Close()

	out := make([]models.BirthdayReminder, 0, 16)
	for rows.Next() {
		var rem models.BirthdayReminder
		c := &rem.Contact
		if err := rows.Scan(&rem.OwnerEmail, &c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Birthday, &c.UserID); err != nil {
			return nil, fmt.Errorf("scan birthday digest row: %w", err)
		}
		out = append(out, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("birthday digest rows: %w", err)
	}
	return out, nil
}

func collectContacts(rows *sql.Rows) ([]models.Contact, error) {
	out := make([]models.Contact, 0, 16)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("contact rows: %w", err)
	}
	return out, nil
}
