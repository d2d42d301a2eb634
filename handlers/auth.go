package handlers

import (
	"net/http"
	"strings"

	"trimly/models"
	"trimly/services/session"
	"trimly/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthHandler exposes the session lifecycle and credential flows. Every
// request is scoped to a device session via the X-Device-ID header; the
// registry hosts one session manager per device.
type AuthHandler struct {
	Registry *session.Registry
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(registry *session.Registry) *AuthHandler {
	return &AuthHandler{Registry: registry}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// deviceManager resolves the session manager for the request's device,
// initializing it with whatever token the request carries.
func (h *AuthHandler) deviceManager(c *gin.Context) (*session.Manager, bool) {
	deviceID := c.GetHeader("X-Device-ID")
	if deviceID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing device ID", "set the X-Device-ID header")
		return nil, false
	}
	mgr := h.Registry.GetOrCreate(deviceID)
	mgr.Initialize(c.Request.Context(), bearerToken(c))
	return mgr, true
}

// InitSessionHandler resolves the device session once at client startup.
// A missing device ID gets a fresh one assigned.
func (h *AuthHandler) InitSessionHandler(c *gin.Context) {
	deviceID := c.GetHeader("X-Device-ID")
	if deviceID == "" {
		deviceID = uuid.New().String()
	}

	mgr := h.Registry.GetOrCreate(deviceID)
	status := mgr.Initialize(c.Request.Context(), bearerToken(c))

	c.JSON(http.StatusOK, gin.H{
		"deviceId": deviceID,
		"status":   status,
		"user":     mgr.CurrentUser(),
	})
}

// SendOtpHandler requests a one-time code for a phone number.
func (h *AuthHandler) SendOtpHandler(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	mgr, ok := h.deviceManager(c)
	if !ok {
		return
	}
	if err := mgr.SendOtp(c.Request.Context(), req.Phone); err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

// VerifyOtpHandler exchanges a phone+code pair for a session. The purpose
// field distinguishes signup verification from login verification.
func (h *AuthHandler) VerifyOtpHandler(c *gin.Context) {
	var req struct {
		Phone   string `json:"phone" binding:"required"`
		Otp     string `json:"otp" binding:"required"`
		Purpose string `json:"purpose"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	mgr, ok := h.deviceManager(c)
	if !ok {
		return
	}

	var (
		account *models.Account
		err     error
	)
	if req.Purpose == "login" {
		account, err = mgr.VerifyLoginOtp(c.Request.Context(), req.Phone, req.Otp)
	} else {
		account, err = mgr.VerifyOtp(c.Request.Context(), req.Phone, req.Otp)
	}
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": account, "token": mgr.Token()})
}

// LoginHandler signs in with phone and password.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	mgr, ok := h.deviceManager(c)
	if !ok {
		return
	}
	account, err := mgr.LoginWithPassword(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": account, "token": mgr.Token()})
}

// RegisterHandler validates signup fields and sends the verification code.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	mgr, ok := h.deviceManager(c)
	if !ok {
		return
	}
	otpSent, err := mgr.Register(c.Request.Context(), req.Name, req.Phone, req.Password)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"otpSent": otpSent})
}

// CompleteRegistrationHandler finishes signup after OTP verification. The
// target account is always the one the session is authenticated as; a body
// user_id naming anyone else is rejected.
func (h *AuthHandler) CompleteRegistrationHandler(c *gin.Context) {
	var req struct {
		UserID   string `json:"user_id"`
		Name     string `json:"name" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	mgr, ok := h.deviceManager(c)
	if !ok {
		return
	}

	current := mgr.CurrentUser()
	if current == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Verify the OTP before completing registration", "")
		return
	}
	if req.UserID != "" && req.UserID != current.ID {
		utils.JSONError(c, http.StatusUnauthorized, "Session does not match the requested account", "")
		return
	}

	if err := mgr.CompleteRegistration(c.Request.Context(), current.ID, req.Name, req.Phone, req.Password); err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": mgr.CurrentUser()})
}

// RefreshHandler re-mints the session token before expiry.
func (h *AuthHandler) RefreshHandler(c *gin.Context) {
	mgr, ok := h.deviceManager(c)
	if !ok {
		return
	}
	if err := mgr.Refresh(c.Request.Context()); err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": mgr.Token(), "user": mgr.CurrentUser()})
}

// LogoutHandler invalidates the device session.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	deviceID := c.GetHeader("X-Device-ID")
	if deviceID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing device ID", "set the X-Device-ID header")
		return
	}

	mgr := h.Registry.GetOrCreate(deviceID)
	mgr.Initialize(c.Request.Context(), bearerToken(c))
	if err := mgr.Logout(c.Request.Context()); err != nil {
		getLogger(c).Warn("logout backend call failed", zap.Error(err))
	}
	h.Registry.Remove(deviceID)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// MeHandler returns the merged current user for an authenticated session.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	deviceID := c.GetString("deviceID")
	mgr := h.Registry.GetOrCreate(deviceID)
	mgr.Initialize(c.Request.Context(), bearerToken(c))

	account := mgr.CurrentUser()
	if mgr.Status() != models.AuthStatusAuthenticated || account == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Not authenticated", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account})
}
