package usecase

import (
	"context"
	"strings"

	"medbridge-api/internal/converter"
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
	"medbridge-api/internal/domain/repository"
	"medbridge-api/internal/service"
	"medbridge-api/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound        = apperror.NotFound("doctor_not_found", "Doctor not found")
	ErrDoctorUnavailable     = apperror.Validation("doctor_unavailable", "This doctor is not accepting consultations")
	ErrInvalidDepartment     = apperror.Validation("invalid_department", "Unknown department")
	ErrNegativeExperience    = apperror.Validation("invalid_experience", "Years of experience cannot be negative")
	ErrUnrealisticExperience = apperror.Validation("invalid_experience", "Years of experience seems unrealistic")
)

type ChinaDoctorUsecase interface {
	CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctors(ctx context.Context, query *dto.DoctorListQuery) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, id int64) (*dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, actor entity.Actor, id int64) error
}

type chinaDoctorUsecase struct {
	transactor   repository.Transactor
	log          *logrus.Logger
	doctorRepo   repository.ChinaDoctorRepository
	auditService service.AuditService
}

func NewChinaDoctorUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	doctorRepo repository.ChinaDoctorRepository,
	auditService service.AuditService,
) ChinaDoctorUsecase {
	return &chinaDoctorUsecase{
		transactor:   transactor,
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *chinaDoctorUsecase) CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if !actor.IsAdministrative() {
		return nil, service.ErrForbidden
	}
	if err := validateExperience(req.YearsOfExperience); err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	doctor := &entity.ChinaDoctor{
		Name:              strings.TrimSpace(req.Name),
		Hospital:          strings.TrimSpace(req.Hospital),
		Department:        entity.Department(req.Department),
		BiographyEN:       req.BiographyEN,
		IsAvailable:       available,
		YearsOfExperience: req.YearsOfExperience,
	}

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.doctorRepo.Create(ctx, tx, doctor); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionDoctorCreate, "china_doctor", doctor.ID, converter.DoctorToResponse(doctor))
	})
	if err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	u.log.Infof("Doctor created: id=%d, department=%s", doctor.ID, doctor.Department)

	return converter.DoctorToResponse(doctor), nil
}

// GetDoctors lists doctors, optionally narrowed by department and availability.
func (u *chinaDoctorUsecase) GetDoctors(ctx context.Context, query *dto.DoctorListQuery) (*dto.DoctorListResponse, error) {
	filter := &entity.DoctorFilter{}
	if query != nil {
		if dept := strings.ToLower(strings.TrimSpace(query.Department)); dept != "" {
			filter.Department = entity.Department(dept)
			if !filter.Department.IsValid() {
				return nil, ErrInvalidDepartment
			}
		}
		filter.Available = parseAvailableFlag(query.Available)
	}

	doctors, err := u.doctorRepo.FindAll(ctx, u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *chinaDoctorUsecase) GetDoctor(ctx context.Context, id int64) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, u.transactor.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *chinaDoctorUsecase) UpdateDoctor(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if !actor.IsAdministrative() {
		return nil, service.ErrForbidden
	}
	if req.YearsOfExperience != nil {
		if err := validateExperience(*req.YearsOfExperience); err != nil {
			return nil, err
		}
	}

	var doctor *entity.ChinaDoctor
	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		doctor, err = u.doctorRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		before := *converter.DoctorToResponse(doctor)

		if req.Name != nil {
			doctor.Name = strings.TrimSpace(*req.Name)
		}
		if req.Hospital != nil {
			doctor.Hospital = strings.TrimSpace(*req.Hospital)
		}
		if req.Department != nil {
			doctor.Department = entity.Department(*req.Department)
		}
		if req.BiographyEN != nil {
			doctor.BiographyEN = *req.BiographyEN
		}
		if req.IsAvailable != nil {
			doctor.IsAvailable = *req.IsAvailable
		}
		if req.YearsOfExperience != nil {
			doctor.YearsOfExperience = *req.YearsOfExperience
		}

		if err := u.doctorRepo.Update(ctx, tx, doctor); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionDoctorUpdate, "china_doctor", doctor.ID, before, converter.DoctorToResponse(doctor))
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			u.log.Warnf("Failed to update doctor %d: %+v", id, err)
		}
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// DeleteDoctor removes the doctor. Availability windows, consultations and
// their reviews go with it.
func (u *chinaDoctorUsecase) DeleteDoctor(ctx context.Context, actor entity.Actor, id int64) error {
	if !actor.IsAdministrative() {
		return service.ErrForbidden
	}

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		if _, err := u.doctorRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, tx, actor, entity.AuditActionDoctorDelete, "china_doctor", id, converter.DoctorToResponse(doctor))
	})
	if err != nil && apperror.KindOf(err) == apperror.KindInternal {
		u.log.Warnf("Failed to delete doctor %d: %+v", id, err)
	}
	return err
}

func validateExperience(years int) error {
	if years < 0 {
		return ErrNegativeExperience
	}
	if years > entity.MaxYearsOfExperience {
		return ErrUnrealisticExperience
	}
	return nil
}

// parseAvailableFlag accepts true|1|yes and false|0|no. Anything else means
// no availability filter.
func parseAvailableFlag(raw string) *bool {
	var value bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		value = true
	case "false", "0", "no":
		value = false
	default:
		return nil
	}
	return &value
}
