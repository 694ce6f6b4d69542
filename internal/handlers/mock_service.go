package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contacts_api/internal/models"
	"contacts_api/internal/repository"
	"contacts_api/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser  *models.User
	signUpErr   error
	token       string
	tokenErr    error
	parseID     int
	parseErr    error
	currentUser *models.User
	currentErr  error

	lastSignUpEmail string
	lastLoginEmail  string
	lastParseToken  string
	lastCurrentID   int
}

func (m *mockAuth) SignUp(ctx context.Context, username, email, password string) (*models.User, error) {
	m.lastSignUpEmail = email
	return m.signUpUser, m.signUpErr
}

func (m *mockAuth) GenerateToken(ctx context.Context, email, password string) (string, error) {
	m.lastLoginEmail = email
	return m.token, m.tokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

func (m *mockAuth) CurrentUser(ctx context.Context, id int) (*models.User, error) {
	m.lastCurrentID = id
	return m.currentUser, m.currentErr
}

type mockContacts struct {
	listResp   []models.Contact
	listErr    error
	getResp    *models.Contact
	getErr     error
	createResp *models.Contact
	createErr  error
	updateResp *models.Contact
	updateErr  error
	deleted    bool
	deleteErr  error
	bdaysResp  []models.Contact
	bdaysErr   error

	lastFilter repository.ContactFilter
	lastID     int64
	lastUserID int
	lastCreate models.Contact
	lastUpdate models.ContactUpdate
}

func (m *mockContacts) List(ctx context.Context, skip, limit int, name, surname, email string, uid int) ([]models.Contact, error) {
	m.lastFilter = repository.ContactFilter{
		UserID: uid, Name: name, Surname: surname, Email: email, Skip: skip, Limit: limit,
	}
	return m.listResp, m.listErr
}

func (m *mockContacts) Get(ctx context.Context, id int64, uid int) (*models.Contact, error) {
	m.lastID, m.lastUserID = id, uid
	return m.getResp, m.getErr
}

func (m *mockContacts) Create(ctx context.Context, c models.Contact) (*models.Contact, error) {
	m.lastCreate = c
	return m.createResp, m.createErr
}

func (m *mockContacts) Update(ctx context.Context, id int64, uid int, upd models.ContactUpdate) (*models.Contact, error) {
	m.lastID, m.lastUserID, m.lastUpdate = id, uid, upd
	return m.updateResp, m.updateErr
}

func (m *mockContacts) Delete(ctx context.Context, id int64, uid int) (bool, error) {
	m.lastID, m.lastUserID = id, uid
	return m.deleted, m.deleteErr
}

func (m *mockContacts) Birthdays(ctx context.Context, skip, limit, uid int) ([]models.Contact, error) {
	m.lastUserID = uid
	return m.bdaysResp, m.bdaysErr
}

type mockReminder struct {
	runs int
}

func (m *mockReminder) Run(ctx context.Context, tick time.Duration) {
	m.runs++
	<-ctx.Done()
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
