package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/joblocal/internal/auth"
	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB        *gorm.DB
	Tokens    *auth.TokenIssuer
	OTP       *auth.OTPGenerator
	AdminCode string
	// LogOTP writes generated codes to the log, for development only.
	LogOTP bool

	now func() time.Time
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenIssuer, otp *auth.OTPGenerator, adminCode string) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, OTP: otp, AdminCode: adminCode, now: time.Now}
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// sentinelPassword gives provider-linked accounts a hash nobody knows the
// plaintext of.
func sentinelPassword() (string, error) {
	return hashPassword(uuid.NewString() + uuid.NewString())
}

func (s *AuthService) findBy(ctx context.Context, query string, args ...any) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Where(query, args...).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) recordLogin(ctx context.Context, u *models.User, loginType string, success bool, ip string) {
	entry := models.LoginLog{UserID: u.ID, LoginType: loginType, Success: success, Timestamp: s.now(), IPAddress: ip}
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		log.WithError(err).WithField("user", u.ID).Warn("failed to record login attempt")
	}
}

func (s *AuthService) respond(u *models.User) (*dtos.AuthResponse, error) {
	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	resp := dtos.NewAuthResponse(u, token)
	return &resp, nil
}

func (s *AuthService) Register(ctx context.Context, req *dtos.RegisterRequest) (*dtos.AuthResponse, error) {
	existing, err := s.findBy(ctx, "email = ?", strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	role := orDefault(req.Role, models.RoleJobseeker)
	if role == models.RoleAdmin && req.AdminCode != s.AdminCode {
		return nil, ErrInvalidAdminCode
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         role,
		Status:       models.UserStatusActive,
	}
	if role == models.RoleOwner {
		u.BusinessName = req.BusinessName
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	log.WithFields(log.Fields{"user": u.ID, "role": u.Role}).Info("user registered")
	return s.respond(u)
}

// Login checks an email and password. Unknown emails and wrong passwords get
// the same error.
func (s *AuthService) Login(ctx context.Context, req *dtos.LoginRequest, ip string) (*dtos.AuthResponse, error) {
	u, err := s.findBy(ctx, "email = ?", strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredential
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		s.recordLogin(ctx, u, models.LoginTypeEmail, false, ip)
		return nil, ErrInvalidCredential
	}
	if u.Status == models.UserStatusSuspended {
		s.recordLogin(ctx, u, models.LoginTypeEmail, false, ip)
		return nil, ErrSuspended
	}
	s.recordLogin(ctx, u, models.LoginTypeEmail, true, ip)
	return s.respond(u)
}

// FirebaseLogin trusts an identity the client obtained from Firebase, linking
// it to the account with the same email or creating one.
func (s *AuthService) FirebaseLogin(ctx context.Context, req *dtos.FirebaseLoginRequest, ip string) (*dtos.AuthResponse, error) {
	email := strings.ToLower(req.Email)
	u, err := s.findBy(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}

	if u != nil {
		if u.FirebaseUID == "" {
			u.FirebaseUID = req.UID
			u.ProfilePicture = orDefault(req.PhotoURL, u.ProfilePicture)
			if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
				return nil, err
			}
		}
	} else {
		hash, err := sentinelPassword()
		if err != nil {
			return nil, err
		}
		u = &models.User{
			Name:           orDefault(req.Name, strings.Split(email, "@")[0]),
			Email:          email,
			PasswordHash:   hash,
			Role:           models.RoleJobseeker,
			Status:         models.UserStatusActive,
			FirebaseUID:    req.UID,
			ProfilePicture: req.PhotoURL,
			IsFirebaseAuth: true,
		}
		if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
			return nil, err
		}
	}

	if u.Status == models.UserStatusSuspended {
		s.recordLogin(ctx, u, models.LoginTypeFirebase, false, ip)
		return nil, ErrSuspended
	}
	s.recordLogin(ctx, u, models.LoginTypeFirebase, true, ip)
	return s.respond(u)
}

// GoogleLogin signs in the account matching a Google profile. First-time
// users are created with the role chosen before the redirect; admin is never
// granted this way.
func (s *AuthService) GoogleLogin(ctx context.Context, p *auth.GoogleProfile, st auth.SignupState, ip string) (*dtos.AuthResponse, error) {
	email := strings.ToLower(p.Email)
	u, err := s.findBy(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}

	if u != nil {
		if u.GoogleID == "" || !u.IsGoogleAuth {
			u.GoogleID = p.ID
			u.IsGoogleAuth = true
			u.ProfilePicture = orDefault(u.ProfilePicture, p.Picture)
			if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
				return nil, err
			}
		}
	} else {
		hash, err := sentinelPassword()
		if err != nil {
			return nil, err
		}
		role := models.RoleJobseeker
		if st.Role == models.RoleOwner {
			role = models.RoleOwner
		}
		u = &models.User{
			Name:           orDefault(p.Name, strings.Split(email, "@")[0]),
			Email:          email,
			PasswordHash:   hash,
			Role:           role,
			Status:         models.UserStatusActive,
			ProfilePicture: p.Picture,
			IsGoogleAuth:   true,
			GoogleID:       p.ID,
		}
		if role == models.RoleOwner {
			u.BusinessName = st.BusinessName
		}
		if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
			return nil, err
		}
	}

	if u.Status == models.UserStatusSuspended {
		s.recordLogin(ctx, u, models.LoginTypeGoogle, false, ip)
		return nil, ErrSuspended
	}
	s.recordLogin(ctx, u, models.LoginTypeGoogle, true, ip)
	return s.respond(u)
}

// SendOTP issues a one-time code for phone, creating a placeholder account
// when the number is new. The response is the same either way.
func (s *AuthService) SendOTP(ctx context.Context, phone, ip string) (uint, error) {
	now := s.now()
	code, err := s.OTP.Generate(now)
	if err != nil {
		return 0, err
	}

	u, err := s.findBy(ctx, "phone = ?", phone)
	if err != nil {
		return 0, err
	}
	if u == nil {
		hash, err := sentinelPassword()
		if err != nil {
			return 0, err
		}
		u = &models.User{
			Name:         "User " + phone,
			Email:        phone + "@jobportal.com",
			PasswordHash: hash,
			Phone:        phone,
			Role:         models.RoleJobseeker,
			Status:       models.UserStatusActive,
		}
	}

	expiry := now.Add(auth.OTPStep)
	u.OTP = code
	u.OTPExpiry = &expiry
	if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
		return 0, err
	}
	s.recordLogin(ctx, u, models.LoginTypeOTP, false, ip)

	if s.LogOTP {
		log.WithFields(log.Fields{"phone": phone, "otp": code}).Info("otp generated")
	}
	return u.ID, nil
}

// VerifyOTP exchanges a valid code for a token. A code works once. An expired
// code is rejected and left in place.
func (s *AuthService) VerifyOTP(ctx context.Context, req *dtos.VerifyOTPRequest, ip string) (*dtos.AuthResponse, error) {
	if req.Phone == "" || req.OTP == "" || req.UserID == "" {
		return nil, ErrOTPFieldsRequired
	}
	id, err := strconv.ParseUint(string(req.UserID), 10, 64)
	if err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.findBy(ctx, "id = ?", uint(id))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	now := s.now()
	if u.OTPExpiry == nil || u.OTPExpiry.Before(now) {
		s.recordLogin(ctx, u, models.LoginTypeOTP, false, ip)
		return nil, ErrOTPExpired
	}
	if u.OTP == "" || u.OTP != req.OTP || !s.OTP.Verify(req.OTP, now) {
		s.recordLogin(ctx, u, models.LoginTypeOTP, false, ip)
		return nil, ErrOTPInvalid
	}

	err = s.DB.WithContext(ctx).Model(u).Updates(map[string]any{"otp": "", "otp_expiry": nil}).Error
	if err != nil {
		return nil, err
	}
	u.OTP, u.OTPExpiry = "", nil

	if u.Status == models.UserStatusSuspended {
		s.recordLogin(ctx, u, models.LoginTypeOTP, false, ip)
		return nil, ErrSuspended
	}
	s.recordLogin(ctx, u, models.LoginTypeOTP, true, ip)
	return s.respond(u)
}

// Authenticate resolves a bearer token to its active account.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.findBy(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if u.Status == models.UserStatusSuspended {
		return nil, ErrSuspended
	}
	return u, nil
}

func (s *AuthService) Profile(u *models.User) dtos.ProfileResponse {
	return dtos.ProfileResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Phone:          u.Phone,
		ProfilePicture: u.ProfilePicture,
	}
}

func (s *AuthService) LoginHistory(ctx context.Context, userID uint) (*dtos.LoginHistoryResponse, error) {
	u, err := s.findBy(ctx, "id = ?", userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	logs := []models.LoginLog{}
	if err := s.DB.WithContext(ctx).Where("user_id = ?", u.ID).Order("id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return &dtos.LoginHistoryResponse{UserID: u.ID, Name: u.Name, Email: u.Email, LoginLogs: logs}, nil
}
