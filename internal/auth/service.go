package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedauth "portal-backend/internal/shared/auth"
	"portal-backend/internal/shared/telemetry"
	"portal-backend/internal/validate"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session expired or revoked")
)

// RegistrationError carries the password/email issues back to the handler.
type RegistrationError struct {
	Fields map[string][]string
}

func (e *RegistrationError) Error() string { return "invalid registration details" }

// optionalField treats blank registration fields as absent so only the
// fields the user actually filled in are validated.
func optionalField(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Company   string
	Phone     string
}

// TokenPair is the result of a successful login, registration or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// ProfileSeed carries the profile details collected at registration.
type ProfileSeed struct {
	FirstName string
	LastName  string
	Company   string
	Phone     string
}

func (p ProfileSeed) empty() bool {
	return p.FirstName == "" && p.LastName == "" && p.Company == "" && p.Phone == ""
}

// ProfileSeeder stores the profile collected at registration. Failures
// are logged, not surfaced; the account itself is already created.
type ProfileSeeder func(ctx context.Context, userID string, seed ProfileSeed) error

type Service struct {
	Users       UserRepo
	Sessions    SessionRepo
	Tokens      *sharedauth.TokenManager
	Revoker     Revoker
	SeedProfile ProfileSeeder
}

func NewService(users UserRepo, sessions SessionRepo, tokens *sharedauth.TokenManager, revoker Revoker) *Service {
	return &Service{Users: users, Sessions: sessions, Tokens: tokens, Revoker: revoker}
}

// Register creates an account and signs the user in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, TokenPair, error) {
	fields := map[string][]string{}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if !validate.Email(email) {
		fields["email"] = []string{"invalid email address"}
	}
	if result := validate.Password(input.Password); !result.Valid {
		fields["password"] = result.Missing
	}
	for _, fe := range validate.ProfileFields(
		optionalField(input.FirstName),
		optionalField(input.LastName),
		optionalField(input.Company),
		optionalField(input.Phone),
	) {
		fields[fe.Field] = append(fields[fe.Field], fe.Issue)
	}
	if len(fields) > 0 {
		return User{}, TokenPair{}, &RegistrationError{Fields: fields}
	}

	hash, err := sharedauth.HashPassword(input.Password)
	if err != nil {
		return User{}, TokenPair{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return User{}, TokenPair{}, err
	}

	seed := ProfileSeed{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Company:   strings.TrimSpace(input.Company),
		Phone:     strings.TrimSpace(input.Phone),
	}
	if s.SeedProfile != nil && !seed.empty() {
		if err := s.SeedProfile(ctx, user.ID, seed); err != nil {
			telemetry.Warn("auth.register.profile_seed_failed", map[string]any{
				"user_id": user.ID,
				"error":   err.Error(),
			})
		}
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair. A wrong
// password and an unknown email fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (User, TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, TokenPair{}, ErrInvalidCredentials
		}
		return User{}, TokenPair{}, err
	}
	if user.PasswordHash == "" {
		return User{}, TokenPair{}, ErrInvalidCredentials
	}

	ok, err := sharedauth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// CurrentUser loads the user behind a verified identity.
func (s *Service) CurrentUser(ctx context.Context, userID string) (User, error) {
	return s.Users.GetByID(ctx, userID)
}

// Refresh rotates a refresh token: the old session is revoked and a new
// pair is issued. A revoked or expired session ends the login.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (User, TokenPair, error) {
	userID, jti, err := s.Tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return User{}, TokenPair{}, ErrSessionExpired
	}

	if revoked, err := s.Revoker.IsRevoked(ctx, jti); err == nil && revoked {
		return User{}, TokenPair{}, ErrSessionExpired
	}

	session, err := s.Sessions.Get(ctx, jti)
	if err != nil {
		return User{}, TokenPair{}, ErrSessionExpired
	}
	if !session.Active(time.Now()) {
		return User{}, TokenPair{}, ErrSessionExpired
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return User{}, TokenPair{}, ErrSessionExpired
	}

	if err := s.revokeSession(ctx, session); err != nil {
		return User{}, TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// SignOut revokes the refresh session behind the token. It never fails
// the caller: an invalid or already-revoked token still signs out.
func (s *Service) SignOut(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	_, jti, err := s.Tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return
	}
	session, err := s.Sessions.Get(ctx, jti)
	if err != nil {
		return
	}
	if err := s.revokeSession(ctx, session); err != nil {
		telemetry.Warn("auth.signout.revoke_failed", map[string]any{
			"jti":   jti,
			"error": err.Error(),
		})
	}
}

// SignOutEverywhere revokes every active session the user holds. Issued
// access tokens keep working until they expire; no refresh survives.
func (s *Service) SignOutEverywhere(ctx context.Context, userID string) error {
	return s.Sessions.RevokeAllForUser(ctx, userID)
}

// SignInWithGoogle finds or creates the account for a verified Google
// identity and issues a token pair.
func (s *Service) SignInWithGoogle(ctx context.Context, sub, email string) (User, TokenPair, error) {
	user, err := s.Users.GetByGoogleSub(ctx, sub)
	if errors.Is(err, ErrNotFound) {
		user, err = s.Users.GetByEmail(ctx, strings.ToLower(email))
		if err == nil {
			if linkErr := s.Users.LinkGoogle(ctx, user.ID, sub); linkErr != nil {
				return User{}, TokenPair{}, linkErr
			}
			user.GoogleSub = sub
		} else if errors.Is(err, ErrNotFound) {
			user = User{
				ID:        uuid.NewString(),
				Email:     strings.ToLower(email),
				GoogleSub: sub,
			}
			err = s.Users.Create(ctx, user)
		}
	}
	if err != nil {
		return User{}, TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return User{}, TokenPair{}, err
	}
	return user, pair, nil
}

func (s *Service) issuePair(ctx context.Context, user User) (TokenPair, error) {
	access, err := s.Tokens.IssueAccessToken(sharedauth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Staff:  user.Staff,
	})
	if err != nil {
		return TokenPair{}, err
	}

	refresh, jti, err := s.Tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.Sessions.Create(ctx, Session{
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.Tokens.RefreshTTL()),
	}); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.Tokens.AccessTTL().Seconds()),
	}, nil
}

func (s *Service) revokeSession(ctx context.Context, session Session) error {
	if err := s.Sessions.Revoke(ctx, session.JTI); err != nil {
		return err
	}
	if ttl := time.Until(session.ExpiresAt); ttl > 0 {
		if err := s.Revoker.Revoke(ctx, session.JTI, ttl); err != nil {
			telemetry.Warn("auth.revoker_failed", map[string]any{
				"jti":   session.JTI,
				"error": err.Error(),
			})
		}
	}
	return nil
}
