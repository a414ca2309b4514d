package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"medbridge-api/internal/converter"
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
	"medbridge-api/internal/domain/repository"
	"medbridge-api/internal/service"
	"medbridge-api/pkg/apperror"
	"medbridge-api/pkg/timeutil"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAvailabilityNotFound = apperror.NotFound("availability_not_found", "Availability window not found")
	ErrInvalidWindow        = apperror.Validation("invalid_window", "End time must be after start time")
	ErrInvalidDateFormat    = apperror.Validation("invalid_date", "Invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat    = apperror.Validation("invalid_time", "Invalid time format, use HH:MM")
	ErrInvalidDoctorFilter  = apperror.Validation("invalid_doctor_id", "doctor_id must be a positive integer")
)

type DoctorAvailabilityUsecase interface {
	CreateAvailability(ctx context.Context, actor entity.Actor, req *dto.CreateAvailabilityRequest) (*dto.AvailabilityResponse, error)
	GetAvailability(ctx context.Context, query *dto.AvailabilityListQuery) (*dto.AvailabilityListResponse, error)
	DeleteAvailability(ctx context.Context, actor entity.Actor, id int64) error
}

type doctorAvailabilityUsecase struct {
	transactor       repository.Transactor
	log              *logrus.Logger
	location         *time.Location
	availabilityRepo repository.DoctorAvailabilityRepository
	doctorRepo       repository.ChinaDoctorRepository
	auditService     service.AuditService
}

func NewDoctorAvailabilityUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	location *time.Location,
	availabilityRepo repository.DoctorAvailabilityRepository,
	doctorRepo repository.ChinaDoctorRepository,
	auditService service.AuditService,
) DoctorAvailabilityUsecase {
	if location == nil {
		location = time.UTC
	}
	return &doctorAvailabilityUsecase{
		transactor:       transactor,
		log:              log,
		location:         location,
		availabilityRepo: availabilityRepo,
		doctorRepo:       doctorRepo,
		auditService:     auditService,
	}
}

// CreateAvailability adds a [start, end) window. Overlapping windows are allowed.
func (u *doctorAvailabilityUsecase) CreateAvailability(ctx context.Context, actor entity.Actor, req *dto.CreateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if !actor.IsAdministrative() {
		return nil, service.ErrForbidden
	}

	date, err := timeutil.ParseDate(req.AvailableDate, u.location)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	start, err := timeutil.ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	end, err := timeutil.ParseClock(req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	// Bounds are stored to the second; the ordering check runs on those values.
	if start >= end {
		return nil, ErrInvalidWindow
	}

	window := &entity.DoctorAvailability{
		DoctorID:      req.DoctorID,
		AvailableDate: date,
		StartTime:     timeutil.FormatClockSec(start),
		EndTime:       timeutil.FormatClockSec(end),
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByID(ctx, tx, req.DoctorID)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		window.Doctor = doctor

		if err := u.availabilityRepo.Create(ctx, tx, window); err != nil {
			if isForeignKeyError(err, "doctor") {
				return ErrDoctorNotFound
			}
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionAvailabilityCreate, "doctor_availability", window.ID, converter.AvailabilityToResponse(window))
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			u.log.Warnf("Failed to create availability for doctor %d: %+v", req.DoctorID, err)
		}
		return nil, err
	}

	return converter.AvailabilityToResponse(window), nil
}

func (u *doctorAvailabilityUsecase) GetAvailability(ctx context.Context, query *dto.AvailabilityListQuery) (*dto.AvailabilityListResponse, error) {
	filter, err := u.parseFilter(query)
	if err != nil {
		return nil, err
	}

	windows, err := u.availabilityRepo.FindAll(ctx, u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find availability: %+v", err)
		return nil, err
	}

	return &dto.AvailabilityListResponse{
		Availability: converter.AvailabilitiesToResponses(windows),
		Total:        len(windows),
	}, nil
}

func (u *doctorAvailabilityUsecase) DeleteAvailability(ctx context.Context, actor entity.Actor, id int64) error {
	if !actor.IsAdministrative() {
		return service.ErrForbidden
	}

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		window, err := u.availabilityRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if window == nil {
			return ErrAvailabilityNotFound
		}

		if _, err := u.availabilityRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, tx, actor, entity.AuditActionAvailabilityDelete, "doctor_availability", id, converter.AvailabilityToResponse(window))
	})
	if err != nil && apperror.KindOf(err) == apperror.KindInternal {
		u.log.Warnf("Failed to delete availability %d: %+v", id, err)
	}
	return err
}

func (u *doctorAvailabilityUsecase) parseFilter(query *dto.AvailabilityListQuery) (*entity.AvailabilityFilter, error) {
	filter := &entity.AvailabilityFilter{}
	if query == nil {
		return filter, nil
	}

	if raw := strings.TrimSpace(query.DoctorID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, ErrInvalidDoctorFilter
		}
		filter.DoctorID = id
	}

	dates := []struct {
		raw    string
		target **time.Time
	}{
		{query.Date, &filter.Date},
		{query.From, &filter.From},
		{query.To, &filter.To},
	}
	for _, d := range dates {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		parsed, err := timeutil.ParseDate(d.raw, u.location)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		*d.target = &parsed
	}

	return filter, nil
}
