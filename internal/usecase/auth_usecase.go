package usecase

import (
	"context"
	"errors"
	"strings"

	"medbridge-api/internal/converter"
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
	"medbridge-api/internal/domain/repository"
	"medbridge-api/internal/service"
	"medbridge-api/pkg/apperror"
	"medbridge-api/pkg/jwt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists    = apperror.Conflict("email_exists", "Email already exists")
	ErrUsernameAlreadyExists = apperror.Conflict("username_exists", "Username already exists")
	ErrInvalidCredentials    = apperror.Unauthorized("invalid_credentials", "Invalid email or password")
	ErrInvalidToken          = apperror.Unauthorized("invalid_token", "Invalid or expired token")
	ErrTokenRevoked          = apperror.Unauthorized("token_revoked", "Token has been revoked")
	ErrUserNotFound          = apperror.NotFound("user_not_found", "User not found")
	ErrRoleNotFound          = errors.New("role not found")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, actor entity.Actor, accessTokenID string, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error)
}

type authUsecase struct {
	transactor   repository.Transactor
	log          *logrus.Logger
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	profileRepo  repository.UserProfileRepository
	tokenRepo    repository.TokenRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
}

func NewAuthUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	profileRepo repository.UserProfileRepository,
	tokenRepo repository.TokenRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
) AuthUsecase {
	return &authUsecase{
		transactor:   transactor,
		log:          log,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		profileRepo:  profileRepo,
		tokenRepo:    tokenRepo,
		auditService: auditService,
		jwtService:   jwtService,
	}
}

// Register creates a patient account together with its profile.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	language := entity.Language(req.LanguagePreference)
	if language == "" {
		language = entity.LanguageEnglish
	}

	user := &entity.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		role, err := u.roleRepo.FindByName(ctx, tx, entity.RolePatient)
		if err != nil {
			return err
		}
		if role == nil {
			return ErrRoleNotFound
		}
		user.RoleID = role.ID
		user.Role = *role

		if err := u.userRepo.Create(ctx, tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isDuplicateKeyError(err, "username") {
				return ErrUsernameAlreadyExists
			}
			return err
		}

		profile := &entity.UserProfile{
			UserID:             user.ID,
			Phone:              req.Phone,
			LanguagePreference: language,
			MedicalHistory:     req.MedicalHistory,
		}
		if err := u.profileRepo.Create(ctx, tx, profile); err != nil {
			return err
		}
		user.Profile = profile

		actor := entity.Actor{UserID: user.ID, RoleID: user.RoleID, Email: user.Email}
		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionUserRegister, "user", user.ID, map[string]interface{}{
			"username":   user.Username,
			"email":      user.Email,
			"profile_id": profile.ID,
		})
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			u.log.Warnf("Failed to register user: %+v", err)
		}
		return nil, err
	}

	u.log.Infof("User registered: id=%s, username=%s", user.ID, user.Username)

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Read-only, no transaction needed
	user, err := u.userRepo.FindByEmail(ctx, u.transactor.Conn(ctx), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || !user.Active() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user)
}

// Logout revokes the presented access token and, when supplied, the refresh
// token belonging to the same account.
func (u *authUsecase) Logout(ctx context.Context, actor entity.Actor, accessTokenID string, req *dto.LogoutRequest) error {
	if err := u.tokenRepo.Revoke(ctx, repository.TokenKindAccess, actor.UserID, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if req == nil || req.RefreshToken == "" {
		return nil
	}

	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != actor.UserID {
		return ErrInvalidToken
	}

	if err := u.tokenRepo.Revoke(ctx, repository.TokenKindRefresh, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenRepo.Exists(ctx, repository.TokenKindRefresh, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Refresh tokens are single use
	if err := u.tokenRepo.Revoke(ctx, repository.TokenKindRefresh, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	// Reload the account so role changes and deactivation take effect
	user, err := u.userRepo.FindByID(ctx, u.transactor.Conn(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || !user.Active() {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error) {
	db := u.transactor.Conn(ctx)

	user, err := u.userRepo.FindByID(ctx, db, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile, err := u.profileRepo.FindByUserID(ctx, db, user.ID)
	if err != nil {
		u.log.Warnf("Failed to find profile for user %s: %+v", user.ID, err)
		return nil, err
	}
	if profile != nil {
		profile.User = nil
		user.Profile = profile
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenRepo.Store(ctx, repository.TokenKindAccess, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.tokenRepo.Store(ctx, repository.TokenKindRefresh, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
