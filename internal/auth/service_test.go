package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	sharedauth "portal-backend/internal/shared/auth"
)

const testPassword = "Str0ng&Secure-Pass"

func newTestService(t *testing.T) *Service {
	t.Helper()
	tokens := sharedauth.NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	return NewService(NewMemoryUserRepo(), NewMemorySessionRepo(), tokens, NewMemoryRevoker())
}

func registerTestUser(t *testing.T, svc *Service, email string) (User, TokenPair) {
	t.Helper()
	user, pair, err := svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: testPassword,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user, pair
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "client@example.com",
		Password: "short",
	})
	var re *RegistrationError
	if !errors.As(err, &re) {
		t.Fatalf("want RegistrationError, got %v", err)
	}
	if len(re.Fields["password"]) == 0 {
		t.Fatalf("no password issues reported: %+v", re.Fields)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	registerTestUser(t, svc, "client@example.com")

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Client@Example.com",
		Password: testPassword,
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPasswordAndUnknownEmailFailAlike(t *testing.T) {
	svc := newTestService(t)
	registerTestUser(t, svc, "client@example.com")
	ctx := context.Background()

	_, _, errWrong := svc.Login(ctx, "client@example.com", "Wrong-Passw0rd!")
	_, _, errUnknown := svc.Login(ctx, "nobody@example.com", testPassword)

	if !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", errWrong)
	}
	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", errUnknown)
	}
}

func TestLoginIssuesWorkingTokens(t *testing.T) {
	svc := newTestService(t)
	user, _ := registerTestUser(t, svc, "client@example.com")

	_, pair, err := svc.Login(context.Background(), "client@example.com", testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	id, err := svc.Tokens.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if id.UserID != user.ID || id.Email != "client@example.com" {
		t.Fatalf("identity mismatch: %+v", id)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc := newTestService(t)
	_, pair := registerTestUser(t, svc, "client@example.com")
	ctx := context.Background()

	_, next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// The consumed token must be dead.
	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("reused token: %v", err)
	}

	// The new one still works.
	if _, _, err := svc.Refresh(ctx, next.RefreshToken); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
}

func TestSignOutRevokesSession(t *testing.T) {
	svc := newTestService(t)
	_, pair := registerTestUser(t, svc, "client@example.com")
	ctx := context.Background()

	svc.SignOut(ctx, pair.RefreshToken)

	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("refresh after signout: %v", err)
	}
}

func TestSignOutEverywhereRevokesAllSessions(t *testing.T) {
	svc := newTestService(t)
	user, first := registerTestUser(t, svc, "client@example.com")
	ctx := context.Background()

	_, second, err := svc.Login(ctx, "client@example.com", testPassword)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if err := svc.SignOutEverywhere(ctx, user.ID); err != nil {
		t.Fatalf("sign out everywhere: %v", err)
	}

	if _, _, err := svc.Refresh(ctx, first.RefreshToken); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("first session refresh: %v", err)
	}
	if _, _, err := svc.Refresh(ctx, second.RefreshToken); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("second session refresh: %v", err)
	}
}

func TestSignOutToleratesGarbageToken(t *testing.T) {
	svc := newTestService(t)
	svc.SignOut(context.Background(), "not-a-token")
}

func TestSignInWithGoogleLinksExistingAccount(t *testing.T) {
	svc := newTestService(t)
	user, _ := registerTestUser(t, svc, "client@example.com")
	ctx := context.Background()

	got, _, err := svc.SignInWithGoogle(ctx, "google-sub-1", "client@example.com")
	if err != nil {
		t.Fatalf("google sign in: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("linked wrong account: %s != %s", got.ID, user.ID)
	}

	// Subsequent sign-ins resolve by sub.
	again, _, err := svc.SignInWithGoogle(ctx, "google-sub-1", "ignored@example.com")
	if err != nil {
		t.Fatalf("second google sign in: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("sub lookup failed: %s", again.ID)
	}
}

func TestSignInWithGoogleCreatesAccount(t *testing.T) {
	svc := newTestService(t)

	user, pair, err := svc.SignInWithGoogle(context.Background(), "google-sub-2", "new@example.com")
	if err != nil {
		t.Fatalf("google sign in: %v", err)
	}
	if user.Email != "new@example.com" || user.GoogleSub != "google-sub-2" {
		t.Fatalf("unexpected user %+v", user)
	}
	if pair.AccessToken == "" {
		t.Fatal("no access token issued")
	}
}

func TestRegisterSeedsProfile(t *testing.T) {
	svc := newTestService(t)

	var seededID string
	var seeded ProfileSeed
	svc.SeedProfile = func(ctx context.Context, userID string, seed ProfileSeed) error {
		seededID = userID
		seeded = seed
		return nil
	}

	user, _, err := svc.Register(context.Background(), RegisterInput{
		Email:     "client@example.com",
		Password:  testPassword,
		FirstName: "Amelia",
		LastName:  "Hart",
		Company:   "Hart & Co",
		Phone:     "+44 20 7946 0000",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if seededID != user.ID {
		t.Fatalf("seeded wrong user: %q", seededID)
	}
	want := ProfileSeed{
		FirstName: "Amelia",
		LastName:  "Hart",
		Company:   "Hart & Co",
		Phone:     "+44 20 7946 0000",
	}
	if seeded != want {
		t.Fatalf("profile seed = %+v", seeded)
	}
}

func TestRegisterRejectsBadProfileFields(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:     "client@example.com",
		Password:  testPassword,
		FirstName: "Amelia",
		Phone:     "call me maybe",
	})
	var re *RegistrationError
	if !errors.As(err, &re) {
		t.Fatalf("want RegistrationError, got %v", err)
	}
	if len(re.Fields["phone"]) == 0 {
		t.Fatalf("phone issue missing: %+v", re.Fields)
	}
}
