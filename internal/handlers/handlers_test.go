package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/feedbackhq/feedback-backend/internal/auth"
	"github.com/feedbackhq/feedback-backend/internal/handlers"
	"github.com/feedbackhq/feedback-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// In-memory stores standing in for the persistence gateway.

type fakeUserStore struct {
	nextID int64
	users  map[string]*models.User // keyed by email
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (s *fakeUserStore) Create(user *models.User) error {
	if _, ok := s.users[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	cp := *user
	s.users[user.Email] = &cp
	return nil
}

func (s *fakeUserStore) FindByEmail(email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *fakeUserStore) FindByID(id int64) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) ExistsByEmail(email string) (bool, error) {
	_, ok := s.users[email]
	return ok, nil
}

type fakeFormStore struct {
	nextID int64
	forms  []*models.FeedbackForm
}

func (s *fakeFormStore) Create(form *models.FeedbackForm) error {
	s.nextID++
	form.ID = s.nextID
	form.CreatedAt = time.Now()
	form.UpdatedAt = form.CreatedAt
	cp := *form
	s.forms = append(s.forms, &cp)
	return nil
}

func (s *fakeFormStore) FindByID(id int64) (*models.FeedbackForm, error) {
	for _, form := range s.forms {
		if form.ID == id {
			cp := *form
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeFormStore) FindByOwner(userID int64) ([]models.FeedbackForm, error) {
	var out []models.FeedbackForm
	for i := len(s.forms) - 1; i >= 0; i-- {
		if s.forms[i].CreatedBy == userID {
			out = append(out, *s.forms[i])
		}
	}
	return out, nil
}

func (s *fakeFormStore) Update(form *models.FeedbackForm) error {
	for _, stored := range s.forms {
		if stored.ID == form.ID {
			stored.Title = form.Title
			stored.Description = form.Description
			stored.IsActive = form.IsActive
			stored.Fields = form.Fields
			stored.UpdatedAt = time.Now()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *fakeFormStore) Delete(id int64) (bool, error) {
	for i, form := range s.forms {
		if form.ID == id {
			s.forms = append(s.forms[:i], s.forms[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeResponseStore struct {
	nextID    int64
	responses []*models.FeedbackResponse
}

func (s *fakeResponseStore) Create(response *models.FeedbackResponse) error {
	s.nextID++
	response.ID = s.nextID
	response.SubmittedAt = time.Now()
	cp := *response
	s.responses = append(s.responses, &cp)
	return nil
}

func (s *fakeResponseStore) FindByForm(formID int64) ([]models.FeedbackResponse, error) {
	var out []models.FeedbackResponse
	for i := len(s.responses) - 1; i >= 0; i-- {
		if s.responses[i].FormID == formID {
			out = append(out, *s.responses[i])
		}
	}
	return out, nil
}

type testEnv struct {
	app       *fiber.App
	tokens    *auth.TokenManager
	users     *fakeUserStore
	forms     *fakeFormStore
	responses *fakeResponseStore
}

func newTestEnv() *testEnv {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := newFakeUserStore()
	forms := &fakeFormStore{}
	responses := &fakeResponseStore{}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(handlers.CORS())

	h := handlers.New(users, forms, responses, tokens, bcrypt.MinCost)
	h.RegisterRoutes(app)

	return &testEnv{app: app, tokens: tokens, users: users, forms: forms, responses: responses}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// signup registers a user and returns their token and id.
func (e *testEnv) signup(t *testing.T, name, email, password string) (string, int64) {
	t.Helper()

	resp := e.request(t, "POST", "/api/auth/signup", "", fiber.Map{
		"name": name, "email": email, "password": password,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup for %s: status %d", email, resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	return body.Token, body.User.ID
}

func TestHealth(t *testing.T) {
	e := newTestEnv()
	resp := e.request(t, "GET", "/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv()
	resp := e.request(t, "OPTIONS", "/api/forms", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestSignupTokenIdentity(t *testing.T) {
	e := newTestEnv()
	token, userID := e.signup(t, "Jane", "jane@example.com", "secret123")

	got, err := e.tokens.Validate(token)
	if err != nil {
		t.Fatalf("signup token did not validate: %v", err)
	}
	if got != userID {
		t.Errorf("token validates to user %d, created user is %d", got, userID)
	}
}

func TestSignupValidation(t *testing.T) {
	e := newTestEnv()
	cases := []struct {
		name string
		body fiber.Map
	}{
		{"missing fields", fiber.Map{"email": "a@b.com"}},
		{"short password", fiber.Map{"name": "A", "email": "a@b.com", "password": "12345"}},
		{"bad email", fiber.Map{"name": "A", "email": "not-an-email", "password": "123456"}},
	}
	for _, tc := range cases {
		resp := e.request(t, "POST", "/api/auth/signup", "", tc.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	e := newTestEnv()
	e.signup(t, "Jane", "jane@example.com", "secret123")

	// Case-insensitive duplicate
	resp := e.request(t, "POST", "/api/auth/signup", "", fiber.Map{
		"name": "Other", "email": "Jane@Example.com", "password": "secret456",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
	if len(e.users.users) != 1 {
		t.Errorf("duplicate signup created a second user")
	}
}

func TestLogin(t *testing.T) {
	e := newTestEnv()
	e.signup(t, "Jane", "jane@example.com", "secret123")

	resp := e.request(t, "POST", "/api/auth/login", "", fiber.Map{
		"email": "jane@example.com", "password": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	decodeBody(t, resp, &body)
	if body.Message != "Login successful" || body.Token == "" {
		t.Errorf("unexpected login body: %+v", body)
	}
}

func TestLoginRejections(t *testing.T) {
	e := newTestEnv()
	e.signup(t, "Jane", "jane@example.com", "secret123")

	cases := []struct {
		name string
		body fiber.Map
		want int
	}{
		{"missing fields", fiber.Map{"email": "jane@example.com"}, http.StatusBadRequest},
		{"unknown email", fiber.Map{"email": "ghost@example.com", "password": "secret123"}, http.StatusUnauthorized},
		{"wrong password", fiber.Map{"email": "jane@example.com", "password": "secret124"}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		resp := e.request(t, "POST", "/api/auth/login", "", tc.body)
		if resp.StatusCode != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestAuthRejectionIsUniform(t *testing.T) {
	e := newTestEnv()
	token, _ := e.signup(t, "Jane", "jane@example.com", "secret123")

	var bodies []string
	for _, tok := range []string{"", token + "x"} {
		resp := e.request(t, "GET", "/api/forms", tok, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		bodies = append(bodies, string(data))
	}
	if bodies[0] != bodies[1] {
		t.Errorf("missing and tampered tokens produce distinguishable responses: %q vs %q", bodies[0], bodies[1])
	}
}

func TestFormFieldsRoundTrip(t *testing.T) {
	e := newTestEnv()
	token, _ := e.signup(t, "Jane", "jane@example.com", "secret123")

	fields := []models.FormField{
		{ID: "q1", Type: "text", Label: "Name", Required: true, Placeholder: "Jane", Order: 0},
		{ID: "q2", Type: "radio", Label: "Rating", Options: []string{"good", "bad"}, Order: 1},
	}

	resp := e.request(t, "POST", "/api/forms", token, fiber.Map{
		"title": "Survey", "description": "A survey", "fields": fields,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created models.FeedbackForm
	decodeBody(t, resp, &created)
	if created.ID == 0 || !created.IsActive {
		t.Errorf("created form missing id or active flag: %+v", created)
	}

	resp = e.request(t, "GET", fmt.Sprintf("/api/forms/%d", created.ID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var fetched models.FeedbackForm
	decodeBody(t, resp, &fetched)
	if len(fetched.Fields) != len(fields) {
		t.Fatalf("expected %d fields, got %d", len(fields), len(fetched.Fields))
	}
	for i, want := range fields {
		got := fetched.Fields[i]
		if got.ID != want.ID || got.Type != want.Type || got.Label != want.Label ||
			got.Required != want.Required || got.Placeholder != want.Placeholder ||
			got.Order != want.Order || len(got.Options) != len(want.Options) {
			t.Errorf("field %d mismatch:\n got %+v\nwant %+v", i, got, want)
		}
	}
}

func TestUpdateFormPartial(t *testing.T) {
	e := newTestEnv()
	token, _ := e.signup(t, "Jane", "jane@example.com", "secret123")

	resp := e.request(t, "POST", "/api/forms", token, fiber.Map{
		"title": "Before", "description": "keep me",
	})
	var created models.FeedbackForm
	decodeBody(t, resp, &created)

	resp = e.request(t, "PUT", fmt.Sprintf("/api/forms/%d", created.ID), token, fiber.Map{
		"title": "After", "isActive": false,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var updated models.FeedbackForm
	decodeBody(t, resp, &updated)
	if updated.Title != "After" || updated.IsActive || updated.Description != "keep me" {
		t.Errorf("partial update wrong: %+v", updated)
	}
}

func TestOwnershipForbidden(t *testing.T) {
	e := newTestEnv()
	ownerToken, _ := e.signup(t, "Owner", "owner@example.com", "secret123")
	otherToken, _ := e.signup(t, "Other", "other@example.com", "secret123")

	resp := e.request(t, "POST", "/api/forms", ownerToken, fiber.Map{"title": "Mine"})
	var form models.FeedbackForm
	decodeBody(t, resp, &form)
	path := fmt.Sprintf("/api/forms/%d", form.ID)

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		var body interface{}
		if method == "PUT" {
			body = fiber.Map{"title": "Stolen"}
		}
		resp := e.request(t, method, path, otherToken, body)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("%s as non-owner: expected 403, got %d", method, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// Form is untouched and still retrievable by its owner.
	resp = e.request(t, "GET", path, ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner get after forbidden attempts: %d", resp.StatusCode)
	}
	var after models.FeedbackForm
	decodeBody(t, resp, &after)
	if after.Title != "Mine" {
		t.Errorf("form changed by forbidden request: %+v", after)
	}
}

func TestListFormsOnlyOwn(t *testing.T) {
	e := newTestEnv()
	aToken, _ := e.signup(t, "A", "a@example.com", "secret123")
	bToken, _ := e.signup(t, "B", "b@example.com", "secret123")

	e.request(t, "POST", "/api/forms", aToken, fiber.Map{"title": "A1"}).Body.Close()
	e.request(t, "POST", "/api/forms", aToken, fiber.Map{"title": "A2"}).Body.Close()
	e.request(t, "POST", "/api/forms", bToken, fiber.Map{"title": "B1"}).Body.Close()

	resp := e.request(t, "GET", "/api/forms", aToken, nil)
	var forms []models.FeedbackForm
	decodeBody(t, resp, &forms)
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}
	// Newest first
	if forms[0].Title != "A2" || forms[1].Title != "A1" {
		t.Errorf("forms not ordered newest first: %+v", forms)
	}
}

func TestDeleteForm(t *testing.T) {
	e := newTestEnv()
	token, _ := e.signup(t, "Jane", "jane@example.com", "secret123")

	resp := e.request(t, "POST", "/api/forms", token, fiber.Map{"title": "Doomed"})
	var form models.FeedbackForm
	decodeBody(t, resp, &form)

	resp = e.request(t, "DELETE", fmt.Sprintf("/api/forms/%d", form.ID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["message"] != "Form deleted successfully" {
		t.Errorf("unexpected delete message: %q", body["message"])
	}

	resp = e.request(t, "DELETE", fmt.Sprintf("/api/forms/%d", form.ID), token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSubmitResponse(t *testing.T) {
	e := newTestEnv()
	token, _ := e.signup(t, "Jane", "jane@example.com", "secret123")

	resp := e.request(t, "POST", "/api/forms", token, fiber.Map{"title": "Survey"})
	var form models.FeedbackForm
	decodeBody(t, resp, &form)
	submitPath := fmt.Sprintf("/api/forms/%d/submit", form.ID)

	// Identified submission
	resp = e.request(t, "POST", submitPath, "", fiber.Map{
		"responses": fiber.Map{"email": "x@y.com", "q1": "answer"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var submitted struct {
		Message    string `json:"message"`
		ResponseID int64  `json:"responseId"`
	}
	decodeBody(t, resp, &submitted)
	if submitted.ResponseID == 0 {
		t.Errorf("no response id assigned")
	}

	// Anonymous submission
	resp = e.request(t, "POST", submitPath, "", fiber.Map{
		"responses": fiber.Map{"q1": "other answer"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Owner reads back submissions, newest first
	resp = e.request(t, "GET", fmt.Sprintf("/api/forms/%d/responses", form.ID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var responses []models.FeedbackResponse
	decodeBody(t, resp, &responses)
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
	if responses[0].RespondentEmail != "anonymous" {
		t.Errorf("expected anonymous respondent first, got %q", responses[0].RespondentEmail)
	}
	if responses[1].RespondentEmail != "x@y.com" {
		t.Errorf("expected identified respondent, got %q", responses[1].RespondentEmail)
	}
	if responses[1].ResponseData["q1"] != "answer" {
		t.Errorf("answer not persisted verbatim: %+v", responses[1].ResponseData)
	}
}

func TestSubmitRejections(t *testing.T) {
	e := newTestEnv()
	token, _ := e.signup(t, "Jane", "jane@example.com", "secret123")

	resp := e.request(t, "POST", "/api/forms", token, fiber.Map{"title": "Survey"})
	var form models.FeedbackForm
	decodeBody(t, resp, &form)

	resp = e.request(t, "POST", "/api/forms/9999/submit", "", fiber.Map{
		"responses": fiber.Map{"q1": "a"},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown form: expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = e.request(t, "POST", fmt.Sprintf("/api/forms/%d/submit", form.ID), "", fiber.Map{
		"responses": fiber.Map{},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty payload: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
