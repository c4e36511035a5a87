package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mailcanvas/campaign-backend/internal/controller"
	apperrors "github.com/mailcanvas/campaign-backend/internal/errors"
	"github.com/mailcanvas/campaign-backend/internal/mailer"
	"github.com/mailcanvas/campaign-backend/internal/model"
	"github.com/mailcanvas/campaign-backend/internal/service"
)

// --- Mock repository (in-memory document store) ---

type MemCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	nextID    int
}

func NewMemCampaignRepo() *MemCampaignRepo {
	return &MemCampaignRepo{campaigns: map[string]*model.Campaign{}}
}

func (m *MemCampaignRepo) Save(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		m.nextID++
		c.ID = fmt.Sprintf("camp-%d", m.nextID)
	}
	copied := *c
	m.campaigns[c.ID] = &copied
	return nil
}

func (m *MemCampaignRepo) GetByID(id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.campaigns[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperrors.NewCampaignNotFound(id)
}

func (m *MemCampaignRepo) ListAll() ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MemCampaignRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return apperrors.NewCampaignNotFound(id)
	}
	delete(m.campaigns, id)
	return nil
}

// --- Mock sender ---

type StubSender struct {
	failFor map[string]string
}

func (s *StubSender) Send(_ context.Context, msg mailer.Message) error {
	if reason, ok := s.failFor[msg.To]; ok {
		return errors.New(reason)
	}
	return nil
}

func newRouter(repo *MemCampaignRepo, sender mailer.Sender) *chi.Mux {
	svc := &service.CampaignService{
		CampaignRepo: repo,
		Mailer:       sender,
		SenderEmail:  "noreply@mailcanvas.io",
	}
	ctrl := &controller.CampaignController{CampaignService: svc}

	r := chi.NewRouter()
	r.Post("/campaigns", ctrl.CreateCampaign)
	r.Get("/campaigns", ctrl.ListCampaigns)
	r.Get("/campaigns/{id}", ctrl.GetCampaign)
	r.Delete("/campaigns/{id}", ctrl.DeleteCampaign)
	r.Post("/campaigns/launch", ctrl.LaunchCampaign)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func launchPayload(recipients ...string) map[string]any {
	rs := []map[string]string{}
	for _, email := range recipients {
		rs = append(rs, map[string]string{"email": email})
	}
	return map[string]any{
		"name":         "Sale",
		"contactList":  "Subscribers",
		"scheduleType": "now",
		"steps": []map[string]string{
			{"type": "send_email", "template": "<p>Hi</p>"},
		},
		"recipients": rs,
	}
}

// --- Tests ---

func TestLaunchEndpointFullSuccess(t *testing.T) {
	r := newRouter(NewMemCampaignRepo(), &StubSender{})

	w := postJSON(t, r, "/campaigns/launch", launchPayload("a@x.com", "b@x.com"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Message      string `json:"message"`
		HasFailures  bool   `json:"hasFailures"`
		EmailResults struct {
			Successful  int    `json:"successful"`
			Failed      int    `json:"failed"`
			Total       int    `json:"total"`
			SuccessRate string `json:"successRate"`
		} `json:"emailResults"`
		FailedEmails []any `json:"failedEmails"`
		Campaign     struct {
			ID string `json:"id"`
		} `json:"campaign"`
	}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if res.HasFailures {
		t.Error("expected hasFailures false")
	}
	if res.EmailResults.SuccessRate != "100.0%" {
		t.Errorf("expected 100.0%%, got %s", res.EmailResults.SuccessRate)
	}
	if res.FailedEmails == nil || len(res.FailedEmails) != 0 {
		t.Errorf("expected present-but-empty failedEmails, got %v", res.FailedEmails)
	}
	if res.Campaign.ID == "" {
		t.Error("expected persisted campaign with id in response")
	}
}

func TestLaunchEndpointPartialFailure(t *testing.T) {
	r := newRouter(NewMemCampaignRepo(), &StubSender{failFor: map[string]string{"b@x.com": "bounced"}})

	w := postJSON(t, r, "/campaigns/launch", launchPayload("a@x.com", "b@x.com"))
	if w.Code != http.StatusOK {
		t.Fatalf("partial success must still answer 200, got %d", w.Code)
	}

	var res struct {
		HasFailures  bool `json:"hasFailures"`
		EmailResults struct {
			Successful int `json:"successful"`
			Failed     int `json:"failed"`
		} `json:"emailResults"`
		FailedEmails []struct {
			Email string `json:"email"`
			Error string `json:"error"`
		} `json:"failedEmails"`
	}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !res.HasFailures || res.EmailResults.Failed != 1 || res.EmailResults.Successful != 1 {
		t.Errorf("unexpected summary: %+v", res)
	}
	if len(res.FailedEmails) != 1 || res.FailedEmails[0].Error == "" {
		t.Errorf("expected one failed email with reason, got %+v", res.FailedEmails)
	}
}

func TestLaunchEndpointValidation(t *testing.T) {
	r := newRouter(NewMemCampaignRepo(), &StubSender{})

	payload := launchPayload() // no recipients
	w := postJSON(t, r, "/campaigns/launch", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var res map[string]string
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res["error"] == "" {
		t.Error("expected structured error message")
	}
}

func TestCreateCampaign(t *testing.T) {
	repo := NewMemCampaignRepo()
	r := newRouter(repo, &StubSender{})

	w := postJSON(t, r, "/campaigns", map[string]any{
		"name":         "Sale",
		"contactList":  "Subscribers",
		"scheduleType": "now",
		"steps": []map[string]string{
			{"type": "send_email", "template": "<p>Hi</p>"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created model.Campaign
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Status != model.CampaignScheduled {
		t.Errorf("unexpected stored campaign: %+v", created)
	}
}

func TestCreateCampaignFieldError(t *testing.T) {
	r := newRouter(NewMemCampaignRepo(), &StubSender{})

	w := postJSON(t, r, "/campaigns", map[string]any{
		"contactList":  "Subscribers",
		"scheduleType": "now",
		"steps": []map[string]string{
			{"type": "send_email", "template": "<p>Hi</p>"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var res map[string]string
	json.NewDecoder(w.Body).Decode(&res)
	if res["error"] != "Campaign name is required." {
		t.Errorf("expected field-specific message, got %q", res["error"])
	}
}

func TestGetCampaignNotFound(t *testing.T) {
	r := newRouter(NewMemCampaignRepo(), &StubSender{})

	req := httptest.NewRequest("GET", "/campaigns/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetCampaignIdempotent(t *testing.T) {
	repo := NewMemCampaignRepo()
	r := newRouter(repo, &StubSender{})

	w := postJSON(t, r, "/campaigns", map[string]any{
		"name":         "Sale",
		"contactList":  "Subscribers",
		"scheduleType": "now",
		"steps": []map[string]string{
			{"type": "send_email", "template": "<p>Hi</p>"},
		},
	})
	var created model.Campaign
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	get := func() string {
		req := httptest.NewRequest("GET", "/campaigns/"+created.ID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		return w.Body.String()
	}

	first := get()
	second := get()
	if first != second {
		t.Errorf("repeated GET returned different bodies:\n%s\n%s", first, second)
	}
}

func TestDeleteCampaign(t *testing.T) {
	repo := NewMemCampaignRepo()
	r := newRouter(repo, &StubSender{})

	w := postJSON(t, r, "/campaigns", map[string]any{
		"name":         "Sale",
		"contactList":  "Subscribers",
		"scheduleType": "now",
		"steps": []map[string]string{
			{"type": "send_email", "template": "<p>Hi</p>"},
		},
	})
	var created model.Campaign
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("DELETE", "/campaigns/"+created.ID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest("DELETE", "/campaigns/"+created.ID, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}
