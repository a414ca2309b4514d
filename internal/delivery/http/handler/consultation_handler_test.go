package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/delivery/http/middleware"
	"medbridge-api/internal/domain/entity"
	"medbridge-api/internal/service"
	"medbridge-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type stubConsultationUsecase struct {
	createErr  error
	statusErr  error
	lastActor  entity.Actor
	lastStatus string
}

func (s *stubConsultationUsecase) CreateConsultation(ctx context.Context, actor entity.Actor, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error) {
	s.lastActor = actor
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.ConsultationResponse{ID: 1, DoctorID: req.DoctorID, Status: string(entity.ConsultationStatusPending)}, nil
}

func (s *stubConsultationUsecase) GetConsultations(ctx context.Context, actor entity.Actor, status string) (*dto.ConsultationListResponse, error) {
	s.lastActor = actor
	s.lastStatus = status
	return &dto.ConsultationListResponse{}, nil
}

func (s *stubConsultationUsecase) GetConsultation(ctx context.Context, actor entity.Actor, id int64) (*dto.ConsultationResponse, error) {
	return &dto.ConsultationResponse{ID: id}, nil
}

func (s *stubConsultationUsecase) UpdateConsultation(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateConsultationRequest) (*dto.ConsultationResponse, error) {
	return &dto.ConsultationResponse{ID: id}, nil
}

func (s *stubConsultationUsecase) UpdateStatus(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateConsultationStatusRequest) (*dto.ConsultationResponse, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &dto.ConsultationResponse{ID: id, Status: req.Status}, nil
}

func (s *stubConsultationUsecase) DeleteConsultation(ctx context.Context, actor entity.Actor, id int64) error {
	return nil
}

type stubReviewUsecase struct {
	err error
}

func (s *stubReviewUsecase) CreateReview(ctx context.Context, actor entity.Actor, consultationID int64, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ReviewResponse{ID: 1, ConsultationID: consultationID, Stars: req.Stars}, nil
}

func (s *stubReviewUsecase) GetDoctorReviews(ctx context.Context, doctorID int64) (*dto.ReviewListResponse, error) {
	return &dto.ReviewListResponse{}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return body
}

func errorCode(t *testing.T, body envelope) string {
	t.Helper()
	var e struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body.Error, &e); err != nil {
		t.Fatalf("invalid error payload %s: %v", body.Error, err)
	}
	return e.Code
}

var patientActor = entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient, Email: "amina@example.com"}

func newConsultationRouter(uc *stubConsultationUsecase, reviews *stubReviewUsecase) *mux.Router {
	h := NewConsultationHandler(uc, reviews, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/consultations", h.CreateConsultation).Methods(http.MethodPost)
	r.HandleFunc("/consultations", h.GetConsultations).Methods(http.MethodGet)
	r.HandleFunc("/consultations/{id}/status", h.UpdateStatus).Methods(http.MethodPut)
	r.HandleFunc("/consultations/{id}/review", h.CreateReview).Methods(http.MethodPost)
	return r
}

func serve(r http.Handler, method, target, body string, actor *entity.Actor) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateConsultationHandler(t *testing.T) {
	validBody := `{"doctor_id": 7, "symptoms_description": "Sharp chest pain after climbing stairs", "scheduled_at": "2024-06-01T10:00:00+08:00"}`

	tests := []struct {
		name       string
		body       string
		actor      *entity.Actor
		useErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "created", body: validBody, actor: &patientActor, wantStatus: http.StatusCreated},
		{name: "no actor", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "malformed JSON", body: `{"doctor_id":`, actor: &patientActor, wantStatus: http.StatusBadRequest},
		{name: "symptoms too short after trim", body: `{"doctor_id": 7, "symptoms_description": "   ache     "}`, actor: &patientActor, wantStatus: http.StatusBadRequest},
		{name: "slot taken", body: validBody, actor: &patientActor, useErr: service.ErrSlotTaken, wantStatus: http.StatusConflict, wantCode: "slot_taken"},
		{name: "outside availability", body: validBody, actor: &patientActor, useErr: service.ErrOutsideAvailability, wantStatus: http.StatusBadRequest, wantCode: "outside_availability"},
		{name: "slot being booked", body: validBody, actor: &patientActor, useErr: service.ErrSlotBeingBooked, wantStatus: http.StatusConflict, wantCode: "slot_being_booked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubConsultationUsecase{createErr: tt.useErr}
			rec := serve(newConsultationRouter(uc, &stubReviewUsecase{}), http.MethodPost, "/consultations", tt.body, tt.actor)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			body := decodeEnvelope(t, rec)
			if tt.wantCode != "" {
				if got := errorCode(t, body); got != tt.wantCode {
					t.Errorf("code = %q, want %q", got, tt.wantCode)
				}
			}
			if tt.wantStatus == http.StatusCreated {
				if !body.Success {
					t.Error("success = false")
				}
				if uc.lastActor.UserID != patientActor.UserID {
					t.Error("actor not passed to usecase")
				}
			}
		})
	}
}

func TestCreateConsultationHandlerReportsFieldErrors(t *testing.T) {
	rec := serve(newConsultationRouter(&stubConsultationUsecase{}, &stubReviewUsecase{}), http.MethodPost, "/consultations",
		`{"symptoms_description": "short"}`, &patientActor)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var fields map[string]string
	if err := json.Unmarshal(decodeEnvelope(t, rec).Error, &fields); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"doctor_id", "symptoms_description"} {
		if fields[field] == "" {
			t.Errorf("missing error for %s in %v", field, fields)
		}
	}
}

func TestUpdateStatusHandler(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "applied", target: "/consultations/3/status", wantStatus: http.StatusOK},
		{name: "illegal transition", target: "/consultations/3/status", err: &service.IllegalTransitionError{From: entity.ConsultationStatusCompleted, To: entity.ConsultationStatusPending}, wantStatus: http.StatusConflict, wantCode: "illegal_transition"},
		{name: "forbidden", target: "/consultations/3/status", err: service.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "forbidden"},
		{name: "bad id", target: "/consultations/abc/status", wantStatus: http.StatusBadRequest},
		{name: "zero id", target: "/consultations/0/status", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubConsultationUsecase{statusErr: tt.err}
			rec := serve(newConsultationRouter(uc, &stubReviewUsecase{}), http.MethodPut, tt.target, `{"status": "confirmed"}`, &patientActor)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if got := errorCode(t, decodeEnvelope(t, rec)); got != tt.wantCode {
					t.Errorf("code = %q, want %q", got, tt.wantCode)
				}
			}
		})
	}
}

func TestGetConsultationsPassesStatusFilter(t *testing.T) {
	uc := &stubConsultationUsecase{}
	rec := serve(newConsultationRouter(uc, &stubReviewUsecase{}), http.MethodGet, "/consultations?status=confirmed", "", &patientActor)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if uc.lastStatus != "confirmed" {
		t.Errorf("status filter = %q", uc.lastStatus)
	}
}

func TestCreateReviewHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "created", body: `{"stars": 5, "comment": "Clear explanation"}`, wantStatus: http.StatusCreated},
		{name: "stars out of range", body: `{"stars": 9}`, wantStatus: http.StatusBadRequest},
		{name: "not completed", body: `{"stars": 4}`, err: service.ErrNotCompleted, wantStatus: http.StatusBadRequest},
		{name: "already reviewed", body: `{"stars": 4}`, err: service.ErrAlreadyReviewed, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newConsultationRouter(&stubConsultationUsecase{}, &stubReviewUsecase{err: tt.err}), http.MethodPost, "/consultations/5/review", tt.body, &patientActor)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
