package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/auth"
	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/services"
	log "github.com/sirupsen/logrus"
)

const nonceCookie = "oauth_nonce"

type AuthHandler struct {
	Auth *services.AuthService
	// Google is nil when no OAuth client is configured.
	Google      *auth.GoogleProvider
	FrontendURL string
}

func NewAuthHandler(a *services.AuthService, google *auth.GoogleProvider, frontendURL string) *AuthHandler {
	return &AuthHandler{Auth: a, Google: google, FrontendURL: frontendURL}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	resp, err := h.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	resp, err := h.Auth.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) FirebaseLogin(c *gin.Context) {
	var req dtos.FirebaseLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	resp, err := h.Auth.FirebaseLogin(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req dtos.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "Phone number is required")
		return
	}
	id, err := h.Auth.SendOTP(c.Request.Context(), req.Phone, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.SendOTPResponse{Message: "OTP sent successfully", UserID: id})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dtos.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	resp, err := h.Auth.VerifyOTP(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, h.Auth.Profile(currentUser(c)))
}

func (h *AuthHandler) LoginHistory(c *gin.Context) {
	hist, err := h.Auth.LoginHistory(c.Request.Context(), idParam(c, "userId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, hist)
}

// GoogleStart sends the browser to Google's consent page. The role and
// business name picked on the signup page ride along in the state.
func (h *AuthHandler) GoogleStart(c *gin.Context) {
	if h.Google == nil {
		message(c, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}
	target, nonce := h.Google.AuthURL(c.Query("role"), c.Query("businessName"))
	c.SetCookie(nonceCookie, nonce, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, target)
}

// GoogleCallback finishes the OAuth round trip and hands the session to the
// frontend through the login page's query string.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.Google == nil {
		message(c, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}
	failed := h.FrontendURL + "/login"

	st, err := auth.DecodeSignupState(c.Query("state"))
	nonce, cookieErr := c.Cookie(nonceCookie)
	if err != nil || cookieErr != nil || nonce != st.Nonce {
		log.WithError(err).Warn("google callback with bad state")
		c.Redirect(http.StatusFound, failed)
		return
	}
	c.SetCookie(nonceCookie, "", -1, "/", "", false, true)

	profile, err := h.Google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.WithError(err).Warn("google exchange failed")
		c.Redirect(http.StatusFound, failed)
		return
	}
	resp, err := h.Auth.GoogleLogin(c.Request.Context(), profile, st, c.ClientIP())
	if err != nil {
		log.WithError(err).Warn("google login failed")
		c.Redirect(http.StatusFound, failed)
		return
	}

	user, _ := json.Marshal(resp)
	q := url.Values{}
	q.Set("google_auth_success", "true")
	q.Set("token", resp.Token)
	q.Set("user", string(user))
	c.Redirect(http.StatusFound, h.FrontendURL+"/login?"+q.Encode())
}
