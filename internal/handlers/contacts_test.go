package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contacts_api/internal/models"
	"contacts_api/internal/repository"
	"contacts_api/internal/service"
)

func newContactsRouter(contacts *mockContacts) http.Handler {
	auth := &mockAuth{parseID: 7}
	s := &service.Service{Authorization: auth, Contacts: contacts}
	return newTestRouter(s)
}

func doJSON(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestContactsHandlers_List(t *testing.T) {
	contacts := &mockContacts{listResp: []models.Contact{
		{ID: 1, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", UserID: 7},
		{ID: 2, FirstName: "Bob", LastName: "Ray", Email: "bob@example.com", UserID: 7},
	}}
	r := newContactsRouter(contacts)

	w := doJSON(r, http.MethodGet, "/api/v1/contacts?skip=10&limit=20&surname=Lee", "", "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Count    int              `json:"count"`
		Contacts []models.Contact `json:"contacts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Contacts) != 2 {
		t.Fatalf("expected 2 contacts, got count=%d len=%d", resp.Count, len(resp.Contacts))
	}

	want := repository.ContactFilter{UserID: 7, Surname: "Lee", Skip: 10, Limit: 20}
	if contacts.lastFilter != want {
		t.Fatalf("filter mismatch:\n got %+v\nwant %+v", contacts.lastFilter, want)
	}
}

func TestContactsHandlers_ListClampsLimit(t *testing.T) {
	contacts := &mockContacts{}
	r := newContactsRouter(contacts)

	w := doJSON(r, http.MethodGet, "/api/v1/contacts?limit=9999", "", "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	if contacts.lastFilter.Limit != maxLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxLimit, contacts.lastFilter.Limit)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/contacts", "", "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	if contacts.lastFilter.Limit != defaultLimit {
		t.Fatalf("expected default limit %d, got %d", defaultLimit, contacts.lastFilter.Limit)
	}
}

func TestContactsHandlers_Get(t *testing.T) {
	contacts := &mockContacts{
		getResp: &models.Contact{ID: 5, FirstName: "Ann", Email: "ann@example.com", UserID: 7},
	}
	r := newContactsRouter(contacts)

	w := doJSON(r, http.MethodGet, "/api/v1/contacts/5", "", "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d, body=%s", w.Code, w.Body.String())
	}
	if contacts.lastID != 5 || contacts.lastUserID != 7 {
		t.Fatalf("expected Get(5, 7), got (%d, %d)", contacts.lastID, contacts.lastUserID)
	}

	// unknown / foreign-owned id → 404
	contacts.getResp = nil
	w = doJSON(r, http.MethodGet, "/api/v1/contacts/99", "", "tok")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	// non-numeric id → 400
	w = doJSON(r, http.MethodGet, "/api/v1/contacts/abc", "", "tok")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestContactsHandlers_Create(t *testing.T) {
	contacts := &mockContacts{
		createResp: &models.Contact{ID: 101, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", UserID: 7},
	}
	r := newContactsRouter(contacts)

	body := `{"first_name":"Ann","last_name":"Lee","email":"ann@example.com","birthday":"1990-06-08"}`
	w := doJSON(r, http.MethodPost, "/api/v1/contacts", body, "tok")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d, body=%s", w.Code, w.Body.String())
	}

	got := contacts.lastCreate
	if got.UserID != 7 {
		t.Fatalf("owner must come from the token, got user_id=%d", got.UserID)
	}
	wantBday := time.Date(1990, time.June, 8, 0, 0, 0, 0, time.UTC)
	if !got.Birthday.Equal(wantBday) {
		t.Fatalf("birthday = %v, want %v", got.Birthday, wantBday)
	}

	// malformed birthday → 400
	w = doJSON(r, http.MethodPost, "/api/v1/contacts",
		`{"first_name":"Ann","last_name":"Lee","email":"ann@example.com","birthday":"08/06/1990"}`, "tok")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad birthday, got %d", w.Code)
	}

	// missing required field → 400
	w = doJSON(r, http.MethodPost, "/api/v1/contacts",
		`{"first_name":"Ann","birthday":"1990-06-08"}`, "tok")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", w.Code)
	}
}

func TestContactsHandlers_Update(t *testing.T) {
	contacts := &mockContacts{
		updateResp: &models.Contact{ID: 5, FirstName: "Ann", LastName: "Ray", Email: "ann@example.com", UserID: 7},
	}
	r := newContactsRouter(contacts)

	// only last_name present: the other fields must stay nil
	w := doJSON(r, http.MethodPut, "/api/v1/contacts/5", `{"last_name":"Ray"}`, "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d, body=%s", w.Code, w.Body.String())
	}
	upd := contacts.lastUpdate
	if upd.LastName == nil || *upd.LastName != "Ray" {
		t.Fatalf("expected last_name=Ray, got %+v", upd)
	}
	if upd.FirstName != nil || upd.Email != nil || upd.Birthday != nil {
		t.Fatalf("absent fields must stay nil, got %+v", upd)
	}

	// birthday in the body is parsed into a time value
	w = doJSON(r, http.MethodPut, "/api/v1/contacts/5", `{"birthday":"1985-12-31"}`, "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d", w.Code)
	}
	if contacts.lastUpdate.Birthday == nil ||
		!contacts.lastUpdate.Birthday.Equal(time.Date(1985, time.December, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("birthday not parsed: %+v", contacts.lastUpdate.Birthday)
	}

	// unknown id → 404
	contacts.updateResp = nil
	w = doJSON(r, http.MethodPut, "/api/v1/contacts/99", `{"last_name":"Ray"}`, "tok")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestContactsHandlers_Delete(t *testing.T) {
	contacts := &mockContacts{deleted: true}
	r := newContactsRouter(contacts)

	w := doJSON(r, http.MethodDelete, "/api/v1/contacts/5", "", "tok")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if contacts.lastID != 5 || contacts.lastUserID != 7 {
		t.Fatalf("expected Delete(5, 7), got (%d, %d)", contacts.lastID, contacts.lastUserID)
	}

	contacts.deleted = false
	w = doJSON(r, http.MethodDelete, "/api/v1/contacts/5", "", "tok")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing row, got %d", w.Code)
	}
}

func TestContactsHandlers_Birthdays(t *testing.T) {
	contacts := &mockContacts{bdaysResp: []models.Contact{
		{ID: 1, FirstName: "Ann", Birthday: time.Date(1990, time.June, 8, 0, 0, 0, 0, time.UTC), UserID: 7},
	}}
	r := newContactsRouter(contacts)

	w := doJSON(r, http.MethodGet, "/api/v1/contacts/birthdays", "", "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("birthdays status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Count int `json:"count"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 1 {
		t.Fatalf("expected count=1, got %d", resp.Count)
	}
	if contacts.lastUserID != 7 {
		t.Fatalf("birthdays must be scoped to the caller, got user_id=%d", contacts.lastUserID)
	}
}
