package services

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/joblocal/internal/auth"
	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(testutil.NewDB(t), auth.NewTokenIssuer("test-secret", time.Hour), auth.NewOTPGenerator("jobportal-secret-key"), "ADMIN123")
}

func loginLogs(t *testing.T, svc *AuthService, userID uint) []models.LoginLog {
	t.Helper()
	h, err := svc.LoginHistory(context.Background(), userID)
	require.NoError(t, err)
	return h.LoginLogs
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dtos.RegisterRequest{
		Name: "Acme", Email: "hr@acme.io", Password: "secret1", Role: models.RoleOwner, BusinessName: "Acme Ltd",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, reg.Role)
	assert.Equal(t, "Acme Ltd", reg.BusinessName)
	assert.NotEmpty(t, reg.Token)

	_, err = svc.Register(ctx, &dtos.RegisterRequest{Name: "Dup", Email: "hr@acme.io", Password: "secret2"})
	assert.ErrorIs(t, err, ErrUserExists)

	resp, err := svc.Login(ctx, &dtos.LoginRequest{Email: "hr@acme.io", Password: "secret1"}, "10.0.0.1")
	require.NoError(t, err)
	id, err := svc.Tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, id)

	logs := loginLogs(t, svc, reg.ID)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Success)
	assert.Equal(t, models.LoginTypeEmail, logs[0].LoginType)
	assert.Equal(t, "10.0.0.1", logs[0].IPAddress)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, &dtos.RegisterRequest{Name: "Sam", Email: "sam@x.io", Password: "secret1"})
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, &dtos.LoginRequest{Email: "nobody@x.io", Password: "secret1"}, "")
	_, errWrong := svc.Login(ctx, &dtos.LoginRequest{Email: "sam@x.io", Password: "nope"}, "")
	assert.ErrorIs(t, errUnknown, ErrInvalidCredential)
	assert.ErrorIs(t, errWrong, ErrInvalidCredential)

	logs := loginLogs(t, svc, reg.ID)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].Success)
}

func TestAdminSignupNeedsCode(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dtos.RegisterRequest{Name: "Root", Email: "root@x.io", Password: "secret1", Role: models.RoleAdmin, AdminCode: "guess"})
	assert.ErrorIs(t, err, ErrInvalidAdminCode)

	resp, err := svc.Register(ctx, &dtos.RegisterRequest{Name: "Root", Email: "root@x.io", Password: "secret1", Role: models.RoleAdmin, AdminCode: "ADMIN123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)
}

func TestSuspendedAccountIsLockedOut(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, &dtos.RegisterRequest{Name: "Sam", Email: "sam@x.io", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, svc.DB.Model(&models.User{}).Where("id = ?", reg.ID).Update("status", models.UserStatusSuspended).Error)

	_, err = svc.Login(ctx, &dtos.LoginRequest{Email: "sam@x.io", Password: "secret1"}, "")
	assert.ErrorIs(t, err, ErrSuspended)

	_, err = svc.Authenticate(ctx, reg.Token)
	assert.ErrorIs(t, err, ErrSuspended)
}

func TestOTPLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(start)

	userID, err := svc.SendOTP(ctx, "9876543210", "")
	require.NoError(t, err)

	var u models.User
	require.NoError(t, svc.DB.First(&u, userID).Error)
	assert.Equal(t, "User 9876543210", u.Name)
	assert.Equal(t, "9876543210@jobportal.com", u.Email)
	code := u.OTP
	require.Len(t, code, 6)

	// same phone reuses the account
	again, err := svc.SendOTP(ctx, "9876543210", "")
	require.NoError(t, err)
	assert.Equal(t, userID, again)

	req := &dtos.VerifyOTPRequest{Phone: "9876543210", OTP: "000000", UserID: models.RefOf(userID)}
	if code == "000000" {
		req.OTP = "111111"
	}
	_, err = svc.VerifyOTP(ctx, req, "")
	assert.ErrorIs(t, err, ErrOTPInvalid)

	svc.now = fixedClock(start.Add(2 * time.Minute))
	req.OTP = code
	resp, err := svc.VerifyOTP(ctx, req, "")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", resp.Phone)

	// single use
	_, err = svc.VerifyOTP(ctx, req, "")
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestOTPExpiredIsKept(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(start)

	userID, err := svc.SendOTP(ctx, "555", "")
	require.NoError(t, err)
	var u models.User
	require.NoError(t, svc.DB.First(&u, userID).Error)

	svc.now = fixedClock(start.Add(6 * time.Minute))
	_, err = svc.VerifyOTP(ctx, &dtos.VerifyOTPRequest{Phone: "555", OTP: u.OTP, UserID: models.RefOf(userID)}, "")
	assert.ErrorIs(t, err, ErrOTPExpired)

	var after models.User
	require.NoError(t, svc.DB.First(&after, userID).Error)
	assert.Equal(t, u.OTP, after.OTP)
	assert.NotNil(t, after.OTPExpiry)
}

func TestVerifyOTPRequiresFields(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.VerifyOTP(context.Background(), &dtos.VerifyOTPRequest{Phone: "555"}, "")
	assert.ErrorIs(t, err, ErrOTPFieldsRequired)

	_, err = svc.VerifyOTP(context.Background(), &dtos.VerifyOTPRequest{Phone: "555", OTP: "123456", UserID: "42"}, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFirebaseLoginLinksOrCreates(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.FirebaseLogin(ctx, &dtos.FirebaseLoginRequest{UID: "fb-1", Email: "new@x.io"}, "")
	require.NoError(t, err)
	assert.Equal(t, "new", resp.Name)
	assert.Equal(t, models.RoleJobseeker, resp.Role)

	existing, err := svc.Register(ctx, &dtos.RegisterRequest{Name: "Sam", Email: "sam@x.io", Password: "secret1"})
	require.NoError(t, err)
	resp, err = svc.FirebaseLogin(ctx, &dtos.FirebaseLoginRequest{UID: "fb-2", Email: "sam@x.io", PhotoURL: "http://pic"}, "")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	assert.Equal(t, "http://pic", resp.ProfilePicture)
}

func TestGoogleLoginNeverGrantsAdmin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	profile := &auth.GoogleProfile{ID: "g-1", Email: "boss@x.io", Name: "Boss"}

	resp, err := svc.GoogleLogin(ctx, profile, auth.SignupState{Nonce: "n", Role: models.RoleAdmin}, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleJobseeker, resp.Role)

	owner := &auth.GoogleProfile{ID: "g-2", Email: "shop@x.io", Name: "Shop"}
	resp, err = svc.GoogleLogin(ctx, owner, auth.SignupState{Nonce: "n", Role: models.RoleOwner, BusinessName: "Shop Co"}, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, resp.Role)
	assert.Equal(t, "Shop Co", resp.BusinessName)
}
