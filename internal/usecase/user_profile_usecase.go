package usecase

import (
	"context"

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
	ErrProfileNotFound = apperror.NotFound("profile_not_found", "User profile not found")
	ErrProfileExists   = apperror.Conflict("profile_exists", "A profile already exists for this account")
)

type UserProfileUsecase interface {
	CreateProfile(ctx context.Context, actor entity.Actor, req *dto.CreateUserProfileRequest) (*dto.UserProfileResponse, error)
	GetProfiles(ctx context.Context, actor entity.Actor) (*dto.UserProfileListResponse, error)
	GetProfile(ctx context.Context, actor entity.Actor, id int64) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateUserProfileRequest) (*dto.UserProfileResponse, error)
	DeleteProfile(ctx context.Context, actor entity.Actor, id int64) error
}

type userProfileUsecase struct {
	transactor   repository.Transactor
	log          *logrus.Logger
	profileRepo  repository.UserProfileRepository
	auditService service.AuditService
}

func NewUserProfileUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	profileRepo repository.UserProfileRepository,
	auditService service.AuditService,
) UserProfileUsecase {
	return &userProfileUsecase{
		transactor:   transactor,
		log:          log,
		profileRepo:  profileRepo,
		auditService: auditService,
	}
}

// CreateProfile creates the caller's own profile. An account holds at most one.
func (u *userProfileUsecase) CreateProfile(ctx context.Context, actor entity.Actor, req *dto.CreateUserProfileRequest) (*dto.UserProfileResponse, error) {
	language := entity.Language(req.LanguagePreference)
	if language == "" {
		language = entity.LanguageEnglish
	}

	profile := &entity.UserProfile{
		UserID:             actor.UserID,
		Phone:              req.Phone,
		LanguagePreference: language,
		MedicalHistory:     req.MedicalHistory,
	}

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := u.profileRepo.FindByUserID(ctx, tx, actor.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrProfileExists
		}

		if err := u.profileRepo.Create(ctx, tx, profile); err != nil {
			if isDuplicateKeyError(err, "user_profiles_user") {
				return ErrProfileExists
			}
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionProfileCreate, "user_profile", profile.ID, converter.UserProfileToResponse(profile))
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			u.log.Warnf("Failed to create profile: %+v", err)
		}
		return nil, err
	}

	return converter.UserProfileToResponse(profile), nil
}

// GetProfiles lists every profile for staff and only the caller's own otherwise.
func (u *userProfileUsecase) GetProfiles(ctx context.Context, actor entity.Actor) (*dto.UserProfileListResponse, error) {
	db := u.transactor.Conn(ctx)

	var profiles []entity.UserProfile
	if actor.IsAdministrative() {
		all, err := u.profileRepo.FindAll(ctx, db)
		if err != nil {
			u.log.Warnf("Failed to find all profiles: %+v", err)
			return nil, err
		}
		profiles = all
	} else {
		own, err := u.profileRepo.FindByUserID(ctx, db, actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to find profile for user %s: %+v", actor.UserID, err)
			return nil, err
		}
		if own != nil {
			profiles = []entity.UserProfile{*own}
		}
	}

	return &dto.UserProfileListResponse{
		Profiles: converter.UserProfilesToResponses(profiles),
		Total:    len(profiles),
	}, nil
}

func (u *userProfileUsecase) GetProfile(ctx context.Context, actor entity.Actor, id int64) (*dto.UserProfileResponse, error) {
	profile, err := u.findAccessible(ctx, u.transactor.Conn(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.UserProfileToResponse(profile), nil
}

func (u *userProfileUsecase) UpdateProfile(ctx context.Context, actor entity.Actor, id int64, req *dto.UpdateUserProfileRequest) (*dto.UserProfileResponse, error) {
	var profile *entity.UserProfile

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		profile, err = u.findAccessible(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		before := *converter.UserProfileToResponse(profile)

		if req.Phone != nil {
			profile.Phone = *req.Phone
		}
		if req.LanguagePreference != nil {
			profile.LanguagePreference = entity.Language(*req.LanguagePreference)
		}
		if req.MedicalHistory != nil {
			profile.MedicalHistory = *req.MedicalHistory
		}

		if err := u.profileRepo.Update(ctx, tx, profile); err != nil {
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionProfileUpdate, "user_profile", profile.ID, before, converter.UserProfileToResponse(profile))
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			u.log.Warnf("Failed to update profile %d: %+v", id, err)
		}
		return nil, err
	}

	return converter.UserProfileToResponse(profile), nil
}

func (u *userProfileUsecase) DeleteProfile(ctx context.Context, actor entity.Actor, id int64) error {
	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		profile, err := u.findAccessible(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		rows, err := u.profileRepo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrProfileNotFound
		}

		return u.auditService.LogDelete(ctx, tx, actor, entity.AuditActionProfileDelete, "user_profile", id, converter.UserProfileToResponse(profile))
	})
	if err != nil && apperror.KindOf(err) == apperror.KindInternal {
		u.log.Warnf("Failed to delete profile %d: %+v", id, err)
	}
	return err
}

// findAccessible hides profiles of other accounts behind ErrProfileNotFound.
func (u *userProfileUsecase) findAccessible(ctx context.Context, db *gorm.DB, actor entity.Actor, id int64) (*entity.UserProfile, error) {
	profile, err := u.profileRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find profile %d: %+v", id, err)
		return nil, err
	}
	if profile == nil || !actor.CanAccess(profile.UserID) {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}
