package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"medbridge-api/config"
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
	"medbridge-api/internal/domain/repository"
	"medbridge-api/internal/service"
	"medbridge-api/pkg/jwt"

	"github.com/jackc/pgx/v5/pgconn"
)

type authFixture struct {
	usecase  AuthUsecase
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	tokens   *fakeTokenRepo
	audit    *fakeAuditRepo
	jwt      *jwt.JWTService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  newFakeUserRepo(),
		tokens: newFakeTokenRepo(),
		audit:  &fakeAuditRepo{},
		jwt: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
		}),
	}
	f.profiles = newFakeProfileRepo(f.users)
	f.usecase = NewAuthUsecase(
		&fakeTransactor{},
		quietLogger(),
		f.users,
		fakeRoleRepo{},
		f.profiles,
		f.tokens,
		service.NewAuditService(quietLogger(), f.audit),
		f.jwt,
	)
	return f
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username:           "amina",
		Email:              "Amina@Example.com",
		Password:           "correct-horse",
		FirstName:          "Amina",
		LastName:           "Yusuf",
		Phone:              "+8613800138000",
		LanguagePreference: "zh-cn",
	}
}

func TestRegisterCreatesPatientWithProfile(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.usecase.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Role != entity.RolePatient {
		t.Errorf("role = %q, want patient", resp.Role)
	}
	if resp.Email != "amina@example.com" {
		t.Errorf("email = %q, want normalized", resp.Email)
	}
	if resp.Profile == nil || resp.Profile.LanguagePreference != "zh-cn" {
		t.Fatalf("profile = %+v, want zh-cn profile", resp.Profile)
	}
	if stored := f.users.users[resp.ID]; stored.Password == "correct-horse" {
		t.Error("password stored in clear text")
	}
	if got := f.audit.actions(); len(got) != 1 || got[0] != entity.AuditActionUserRegister {
		t.Errorf("audit actions = %v", got)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.users.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"}

	_, err := f.usecase.Register(context.Background(), registerRequest())
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("err = %v, want email exists", err)
	}
	if len(f.profiles.profiles) != 0 {
		t.Error("profile created for failed registration")
	}
}

func TestLoginRefreshLogout(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	registered, err := f.usecase.Register(ctx, registerRequest())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "amina@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}

	tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "amina@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in = %d", tokens.ExpiresIn)
	}

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != registered.ID || claims.RoleID != entity.RoleIDPatient {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token used as refresh err = %v", err)
	}

	rotated, err := f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("reused refresh token err = %v, want revoked", err)
	}

	rotatedClaims, err := f.jwt.ValidateToken(rotated.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	actor := entity.Actor{UserID: rotatedClaims.UserID, RoleID: rotatedClaims.RoleID}
	if err := f.usecase.Logout(ctx, actor, rotatedClaims.TokenID, &dto.LogoutRequest{RefreshToken: rotated.RefreshToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if ok, _ := f.tokens.Exists(ctx, repository.TokenKindAccess, actor.UserID, rotatedClaims.TokenID); ok {
		t.Error("access token still registered after logout")
	}
	if n := f.tokens.count(repository.TokenKindRefresh); n != 0 {
		t.Errorf("%d refresh tokens left after logout", n)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	registered, err := f.usecase.Register(ctx, registerRequest())
	if err != nil {
		t.Fatal(err)
	}
	inactive := false
	f.users.users[registered.ID].IsActive = &inactive

	if _, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "amina@example.com", Password: "correct-horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want invalid credentials", err)
	}
}

func TestGetCurrentUserIncludesProfile(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	registered, err := f.usecase.Register(ctx, registerRequest())
	if err != nil {
		t.Fatal(err)
	}

	me, err := f.usecase.GetCurrentUser(ctx, entity.Actor{UserID: registered.ID, RoleID: entity.RoleIDPatient})
	if err != nil {
		t.Fatal(err)
	}
	if me.FullName != "Amina Yusuf" {
		t.Errorf("full name = %q", me.FullName)
	}
	if me.Profile == nil || me.Profile.Phone != "+8613800138000" {
		t.Errorf("profile = %+v", me.Profile)
	}

	if _, err := f.usecase.GetCurrentUser(ctx, entity.Actor{}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user err = %v", err)
	}
}
