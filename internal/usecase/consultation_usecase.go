package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"medbridge-api/internal/converter"
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
	"medbridge-api/internal/domain/repository"
	"medbridge-api/internal/infrastructure/metrics"
	"medbridge-api/internal/service"
	"medbridge-api/pkg/apperror"
	"medbridge-api/pkg/timeutil"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	minSymptomsLength = 10

	confirmedSlotConstraint = "uq_consultations_doctor_slot_confirmed"
)

var (
	ErrConsultationNotFound = apperror.NotFound("consultation_not_found", "Consultation not found")
	ErrOwnershipMismatch    = apperror.Forbidden("ownership_mismatch", "The selected profile does not belong to you")
	ErrNoProfileForActor    = apperror.NotFound("no_profile_for_actor", "Create a user profile before booking a consultation")
	ErrSymptomsTooShort     = apperror.Validation("too_short", "Symptoms description must be at least 10 characters")
	ErrInvalidScheduledAt   = apperror.Validation("invalid_scheduled_at", timeutil.ErrInvalidTimestamp.Error())
	ErrInvalidAISuggestion  = apperror.Validation("invalid_ai_suggestion", "ai_suggestion must be a JSON value")
)

type ConsultationUsecase interface {
	CreateConsultation(ctx context.Context, actor entity.Actor, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error)
	GetConsultations(ctx context.Context, actor entity.Actor, status string) (*dto.ConsultationListResponse, error)
	GetConsultation(ctx context.Context, actor entity.Actor, id int64) (*dto.ConsultationResponse, error)
	UpdateConsultation(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateConsultationRequest) (*dto.ConsultationResponse, error)
	UpdateStatus(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateConsultationStatusRequest) (*dto.ConsultationResponse, error)
	DeleteConsultation(ctx context.Context, actor entity.Actor, id int64) error
}

type consultationUsecase struct {
	transactor       repository.Transactor
	log              *logrus.Logger
	consultationRepo repository.ConsultationRepository
	doctorRepo       repository.ChinaDoctorRepository
	profileRepo      repository.UserProfileRepository
	bookingValidator *service.BookingValidator
	slotLocker       service.SlotLocker
	triager          service.Triager
	notifier         service.StatusNotifier
	auditService     service.AuditService
	metrics          *metrics.Metrics
}

func NewConsultationUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	consultationRepo repository.ConsultationRepository,
	doctorRepo repository.ChinaDoctorRepository,
	profileRepo repository.UserProfileRepository,
	bookingValidator *service.BookingValidator,
	slotLocker service.SlotLocker,
	triager service.Triager,
	notifier service.StatusNotifier,
	auditService service.AuditService,
	metrics *metrics.Metrics,
) ConsultationUsecase {
	return &consultationUsecase{
		transactor:       transactor,
		log:              log,
		consultationRepo: consultationRepo,
		doctorRepo:       doctorRepo,
		profileRepo:      profileRepo,
		bookingValidator: bookingValidator,
		slotLocker:       slotLocker,
		triager:          triager,
		notifier:         notifier,
		auditService:     auditService,
		metrics:          metrics,
	}
}

// CreateConsultation books a pending consultation.
//
// Flow:
// 1. Symptoms must be at least 10 characters once trimmed
// 2. Doctor must exist and accept consultations
// 3. Profile is the requested one (owned by the actor unless staff) or the actor's own
// 4. A requested time must fall in an availability window and not hit a confirmed slot
// 5. Persist as pending, attaching a triage suggestion when the client sent none
func (u *consultationUsecase) CreateConsultation(ctx context.Context, actor entity.Actor, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error) {
	symptoms := strings.TrimSpace(req.SymptomsDescription)
	if utf8.RuneCountInString(symptoms) < minSymptomsLength {
		return nil, ErrSymptomsTooShort
	}

	scheduledAt, err := u.parseScheduledAt(req.ScheduledAt)
	if err != nil {
		return nil, err
	}

	suggestion, err := u.aiSuggestion(req.AISuggestion, symptoms)
	if err != nil {
		return nil, err
	}

	var consultation *entity.Consultation
	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByID(ctx, tx, req.DoctorID)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		if !doctor.IsAvailable {
			return ErrDoctorUnavailable
		}

		profile, err := u.resolveProfile(ctx, tx, actor, req.UserProfileID)
		if err != nil {
			return err
		}

		if scheduledAt != nil {
			if err := u.bookingValidator.Validate(ctx, tx, doctor.ID, *scheduledAt); err != nil {
				u.countRejection(err)
				return err
			}
		}

		consultation = &entity.Consultation{
			UserProfileID:       profile.ID,
			DoctorID:            doctor.ID,
			SymptomsDescription: symptoms,
			AISuggestion:        suggestion,
			ReportRef:           strings.TrimSpace(req.ReportRef),
			Status:              entity.ConsultationStatusPending,
			ScheduledAt:         scheduledAt,
			Notes:               req.Notes,
		}
		if err := u.consultationRepo.Create(ctx, tx, consultation); err != nil {
			return err
		}
		consultation.Doctor = doctor
		consultation.UserProfile = profile

		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionConsultationCreate, "consultation", consultation.ID, map[string]interface{}{
			"doctor_id":       consultation.DoctorID,
			"user_profile_id": consultation.UserProfileID,
			"scheduled_at":    consultation.ScheduledAt,
			"status":          consultation.Status,
		})
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			u.log.Warnf("Failed to create consultation: %+v", err)
		}
		return nil, err
	}

	u.metrics.ConsultationsBooked.Inc()
	u.log.Infof("Consultation booked: id=%d, doctor=%d, profile=%d", consultation.ID, consultation.DoctorID, consultation.UserProfileID)

	return converter.ConsultationToResponse(consultation), nil
}

// GetConsultations lists the actor's own consultations, or everyone's for staff.
func (u *consultationUsecase) GetConsultations(ctx context.Context, actor entity.Actor, status string) (*dto.ConsultationListResponse, error) {
	filter := &entity.ConsultationFilter{}
	if !actor.IsAdministrative() {
		owner := actor.UserID
		filter.OwnerUserID = &owner
	}
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
		filter.Status = entity.ConsultationStatus(status)
		if !filter.Status.IsValid() {
			return nil, service.ErrInvalidStatus
		}
	}

	consultations, err := u.consultationRepo.FindAll(ctx, u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find consultations: %+v", err)
		return nil, err
	}

	return &dto.ConsultationListResponse{
		Consultations: converter.ConsultationsToResponses(consultations),
		Total:         len(consultations),
	}, nil
}

// GetConsultation hides consultations of other patients behind NotFound.
func (u *consultationUsecase) GetConsultation(ctx context.Context, actor entity.Actor, id int64) (*dto.ConsultationResponse, error) {
	consultation, err := u.consultationRepo.FindByID(ctx, u.transactor.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find consultation %d: %+v", id, err)
		return nil, err
	}
	if consultation == nil || !canAccessConsultation(actor, consultation) {
		return nil, ErrConsultationNotFound
	}
	return converter.ConsultationToResponse(consultation), nil
}

// UpdateConsultation applies the supplied fields in one transaction. A status
// change goes through the transition rules; when it is rejected nothing is
// written.
func (u *consultationUsecase) UpdateConsultation(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateConsultationRequest) (*dto.ConsultationResponse, error) {
	changes := consultationChanges{
		symptoms:  req.SymptomsDescription,
		reportRef: req.ReportRef,
		notes:     req.Notes,
	}

	if req.SymptomsDescription != nil {
		trimmed := strings.TrimSpace(*req.SymptomsDescription)
		if utf8.RuneCountInString(trimmed) < minSymptomsLength {
			return nil, ErrSymptomsTooShort
		}
		changes.symptoms = &trimmed
	}

	if req.ScheduledAt != nil {
		changes.scheduleSet = true
		at, err := u.parseScheduledAt(req.ScheduledAt)
		if err != nil {
			return nil, err
		}
		changes.scheduledAt = at
	}

	if req.Status != nil {
		target := entity.ConsultationStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		changes.status = &target
	}

	return u.update(ctx, actor, id, changes, entity.AuditActionConsultationUpdate)
}

func (u *consultationUsecase) UpdateStatus(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateConsultationStatusRequest) (*dto.ConsultationResponse, error) {
	target := entity.ConsultationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	return u.update(ctx, actor, id, consultationChanges{
		status: &target,
		notes:  req.Notes,
	}, entity.AuditActionConsultationStatus)
}

func (u *consultationUsecase) DeleteConsultation(ctx context.Context, actor entity.Actor, id int64) error {
	if !actor.IsAdministrative() {
		return service.ErrForbidden
	}

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		consultation, err := u.consultationRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if consultation == nil {
			return ErrConsultationNotFound
		}

		if _, err := u.consultationRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, tx, actor, entity.AuditActionConsultationDelete, "consultation", id, map[string]interface{}{
			"doctor_id":       consultation.DoctorID,
			"user_profile_id": consultation.UserProfileID,
			"status":          consultation.Status,
		})
	})
	if err != nil && apperror.KindOf(err) == apperror.KindInternal {
		u.log.Warnf("Failed to delete consultation %d: %+v", id, err)
	}
	return err
}

// consultationChanges is a partial update. Nil fields are left untouched.
type consultationChanges struct {
	symptoms    *string
	reportRef   *string
	notes       *string
	scheduleSet bool
	scheduledAt *time.Time
	status      *entity.ConsultationStatus
}

func (u *consultationUsecase) update(ctx context.Context, actor entity.Actor, id int64, changes consultationChanges, action string) (*dto.ConsultationResponse, error) {
	var (
		consultation *entity.Consultation
		from         entity.ConsultationStatus
		changed      bool
	)

	write := func(ctx context.Context) error {
		return u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
			var err error
			consultation, err = u.consultationRepo.FindByIDForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			if consultation == nil || !canAccessConsultation(actor, consultation) {
				return ErrConsultationNotFound
			}

			from = consultation.Status
			before := snapshotConsultation(consultation)

			if changes.symptoms != nil {
				consultation.SymptomsDescription = *changes.symptoms
			}
			if changes.reportRef != nil {
				consultation.ReportRef = strings.TrimSpace(*changes.reportRef)
			}
			if changes.notes != nil {
				consultation.Notes = *changes.notes
			}
			if changes.scheduleSet {
				consultation.ScheduledAt = changes.scheduledAt
			}

			if changes.status != nil {
				changed, err = service.TransitionStatus(consultation, *changes.status, actor)
				if err != nil {
					return err
				}
			}

			if changed && consultation.IsConfirmed() && consultation.ScheduledAt != nil {
				if err := u.bookingValidator.CheckSlotFree(ctx, tx, consultation.DoctorID, *consultation.ScheduledAt, consultation.ID); err != nil {
					return err
				}
			}
			if err := u.consultationRepo.Save(ctx, tx, consultation); err != nil {
				if isDuplicateKeyError(err, confirmedSlotConstraint) {
					return service.ErrSlotTaken
				}
				return err
			}
			if err := u.auditService.LogUpdate(ctx, tx, actor, action, "consultation", consultation.ID, before, snapshotConsultation(consultation)); err != nil {
				return err
			}

			consultation, err = u.consultationRepo.FindByID(ctx, tx, id)
			if err != nil {
				return err
			}
			if consultation == nil {
				return ErrConsultationNotFound
			}
			return nil
		})
	}

	// The slot lock is held until the confirmation has committed.
	slot, err := u.confirmationSlot(ctx, actor, id, changes)
	if err == nil {
		if slot != nil {
			err = u.slotLocker.WithSlotLock(ctx, slot.doctorID, slot.at, write)
		} else {
			err = write(ctx)
		}
	}
	if err != nil {
		u.countRejection(err)
		if apperror.KindOf(err) == apperror.KindInternal {
			u.log.Warnf("Failed to update consultation %d: %+v", id, err)
		}
		return nil, err
	}

	if changed {
		u.metrics.StatusTransitions.WithLabelValues(string(from), string(consultation.Status)).Inc()
		u.log.Infof("Consultation status changed: id=%d, %s -> %s", consultation.ID, from, consultation.Status)

		var recipient *entity.User
		if consultation.UserProfile != nil {
			recipient = consultation.UserProfile.User
		}
		u.notifier.NotifyStatusChange(consultation, recipient, from)
	}

	return converter.ConsultationToResponse(consultation), nil
}

type bookingSlot struct {
	doctorID int64
	at       time.Time
}

// confirmationSlot peeks at the consultation outside the transaction and
// returns the slot a staff confirmation would occupy, or nil when the update
// cannot confirm a scheduled consultation. A slot that changes between the
// peek and the locked read is still caught by CheckSlotFree and the unique
// index.
func (u *consultationUsecase) confirmationSlot(ctx context.Context, actor entity.Actor, id int64, changes consultationChanges) (*bookingSlot, error) {
	if changes.status == nil || *changes.status != entity.ConsultationStatusConfirmed || !actor.IsAdministrative() {
		return nil, nil
	}

	current, err := u.consultationRepo.FindByID(ctx, u.transactor.Conn(ctx), id)
	if err != nil {
		return nil, err
	}
	if current == nil || current.IsConfirmed() {
		return nil, nil
	}

	at := current.ScheduledAt
	if changes.scheduleSet {
		at = changes.scheduledAt
	}
	if at == nil {
		return nil, nil
	}
	return &bookingSlot{doctorID: current.DoctorID, at: *at}, nil
}

// resolveProfile picks the requested profile, checking ownership for
// non-staff actors, or falls back to the actor's own profile.
func (u *consultationUsecase) resolveProfile(ctx context.Context, db *gorm.DB, actor entity.Actor, profileID *int64) (*entity.UserProfile, error) {
	if profileID != nil {
		profile, err := u.profileRepo.FindByID(ctx, db, *profileID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, ErrProfileNotFound
		}
		if !actor.CanAccess(profile.UserID) {
			return nil, ErrOwnershipMismatch
		}
		return profile, nil
	}

	profile, err := u.profileRepo.FindByUserID(ctx, db, actor.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoProfileForActor
	}
	return profile, nil
}

func (u *consultationUsecase) parseScheduledAt(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	at, err := timeutil.ParseTimestamp(*raw, u.bookingValidator.Location())
	if err != nil {
		return nil, ErrInvalidScheduledAt
	}
	return &at, nil
}

// aiSuggestion keeps a client-supplied suggestion and otherwise asks the triager.
func (u *consultationUsecase) aiSuggestion(raw json.RawMessage, symptoms string) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if !json.Valid(trimmed) {
			return nil, ErrInvalidAISuggestion
		}
		return datatypes.JSON(trimmed), nil
	}

	suggestion, err := json.Marshal(converter.TriageToResponse(u.triager.Suggest(symptoms)))
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(suggestion), nil
}

func (u *consultationUsecase) countRejection(err error) {
	var classified *apperror.Error
	if !errors.As(err, &classified) {
		return
	}
	switch classified {
	case service.ErrOutsideAvailability, service.ErrSlotTaken, service.ErrSlotBeingBooked:
		u.metrics.BookingRejections.WithLabelValues(classified.Code).Inc()
	}
}

func canAccessConsultation(actor entity.Actor, consultation *entity.Consultation) bool {
	if actor.IsAdministrative() {
		return true
	}
	return consultation.UserProfile != nil && actor.Owns(consultation.UserProfile.UserID)
}

func snapshotConsultation(c *entity.Consultation) map[string]interface{} {
	return map[string]interface{}{
		"status":               c.Status,
		"scheduled_at":         c.ScheduledAt,
		"notes":                c.Notes,
		"report_ref":           c.ReportRef,
		"symptoms_description": c.SymptomsDescription,
	}
}
