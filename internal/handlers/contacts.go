package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"contacts_api/internal/models"
)

const (
	layoutDate = "2006-01-02"

	defaultLimit = 100
	maxLimit     = 500

	errInvalidContactID = "invalid contact id"
	errInvalidBirthday  = "invalid birthday; use YYYY-MM-DD"
	errContactNotFound  = "contact not found"
	errListContacts     = "failed to list contacts"
)

// Request DTO for creating a contact.
type createContactRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Birthday  string `json:"birthday" binding:"required"` // YYYY-MM-DD
}

// Request DTO for a partial update; absent fields stay untouched.
type updateContactRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	Birthday  *string `json:"birthday,omitempty"` // YYYY-MM-DD
}

func parseBirthday(s string) (time.Time, error) {
	return time.Parse(layoutDate, s)
}

// parsePagination reads skip/limit query params with sane defaults.
func parsePagination(c *gin.Context) (skip, limit int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(c.Query("skip")); err == nil && v > 0 {
		skip = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = min(v, maxLimit)
	}
	return skip, limit
}

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidContactID})
		return 0, false
	}
	return id, true
}

// @Summary      List contacts
// @Description  Optional exact-match filters on first name, last name and email.
// @Tags         contacts
// @Produce      json
// @Param        skip     query  int     false  "Rows to skip"
// @Param        limit    query  int     false  "Max rows to return"
// @Param        name     query  string  false  "First name filter"
// @Param        surname  query  string  false  "Last name filter"
// @Param        email    query  string  false  "Email filter"
// @Success      200  {object}  map[string]interface{}  "count, contacts"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/contacts [get]
// @Security     BearerAuth
func (h *Handler) listContacts(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	skip, limit := parsePagination(c)

	contacts, err := h.services.Contacts.List(c.Request.Context(), skip, limit,
		c.Query("name"), c.Query("surname"), c.Query("email"), uid)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("contacts_list_failed", "user_id", uid, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errListContacts})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(contacts),
		"contacts": contacts,
	})
}

// @Summary      Get contact
// @Tags         contacts
// @Produce      json
// @Param        id  path  int  true  "Contact id"
// @Success      200  {object}  models.Contact
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/contacts/{id} [get]
// @Security     BearerAuth
func (h *Handler) getContact(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}

	contact, err := h.services.Contacts.Get(c.Request.Context(), id, uid)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("contacts_get_failed", "id", id, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load contact"})
		return
	}
	if contact == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errContactNotFound})
		return
	}

	c.JSON(http.StatusOK, contact)
}

// @Summary      Create contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        body  body  createContactRequest  true  "Contact payload"
// @Success      201  {object}  models.Contact
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/contacts [post]
// @Security     BearerAuth
func (h *Handler) createContact(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var input createContactRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	birthday, err := parseBirthday(input.Birthday)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBirthday})
		return
	}

	contact, err := h.services.Contacts.Create(c.Request.Context(), models.Contact{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Birthday:  birthday,
		UserID:    uid,
	})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("contacts_create_failed", "user_id", uid, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create contact"})
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// @Summary      Update contact
// @Description  Partial update; only fields present in the body are applied.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "Contact id"
// @Param        body  body  updateContactRequest  true  "Fields to change"
// @Success      200  {object}  models.Contact
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/contacts/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateContact(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}

	var input updateContactRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := models.ContactUpdate{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	}
	if input.Birthday != nil {
		birthday, err := parseBirthday(*input.Birthday)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBirthday})
			return
		}
		upd.Birthday = &birthday
	}

	contact, err := h.services.Contacts.Update(c.Request.Context(), id, uid, upd)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("contacts_update_failed", "id", id, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update contact"})
		return
	}
	if contact == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errContactNotFound})
		return
	}

	c.JSON(http.StatusOK, contact)
}

// @Summary      Delete contact
// @Tags         contacts
// @Param        id  path  int  true  "Contact id"
// @Success      204  "deleted"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/contacts/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteContact(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}

	deleted, err := h.services.Contacts.Delete(c.Request.Context(), id, uid)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("contacts_delete_failed", "id", id, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete contact"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": errContactNotFound})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Upcoming birthdays
// @Description  Contacts whose birthday falls within the next 7 days, year boundary included.
// @Tags         contacts
// @Produce      json
// @Param        skip   query  int  false  "Rows to skip"
// @Param        limit  query  int  false  "Max rows to return"
// @Success      200  {object}  map[string]interface{}  "count, contacts"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/contacts/birthdays [get]
// @Security     BearerAuth
func (h *Handler) upcomingBirthdays(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	skip, limit := parsePagination(c)

	contacts, err := h.services.Contacts.Birthdays(c.Request.Context(), skip, limit, uid)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("contacts_birthdays_failed", "user_id", uid, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load birthdays"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(contacts),
		"contacts": contacts,
	})
}
