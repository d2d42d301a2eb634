package handlers

import (
	"net/http"

	clientRepo "trimly/database/repository/client"
	"trimly/models"
	"trimly/services/auth"
	"trimly/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ProfileHandler manages the client profile row that augments the auth
// identity.
type ProfileHandler struct {
	Provider auth.Provider
	Clients  clientRepo.ClientRepository
}

// NewProfileHandler creates the profile handler.
func NewProfileHandler(provider auth.Provider, clients clientRepo.ClientRepository) *ProfileHandler {
	return &ProfileHandler{Provider: provider, Clients: clients}
}

// UpdateProfileHandler applies a partial update to the caller's profile.
// Name and phone propagate to the auth identity metadata so the merged
// display name stays consistent across both sources.
func (h *ProfileHandler) UpdateProfileHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Not authenticated", "")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Phone       *string `json:"phone"`
		Address     *string `json:"address"`
		Preferences *string `json:"preferences"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	if req.Name != nil || req.Phone != nil {
		meta := &models.UserMetadata{}
		if req.Name != nil {
			meta.FullName = *req.Name
		}
		if req.Phone != nil {
			meta.Phone = *req.Phone
		}
		if err := h.Provider.UpdateUser(c.Request.Context(), userID, auth.UserUpdate{Metadata: meta}); err != nil {
			utils.JSONAppError(c, err)
			return
		}
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Preferences != nil {
		fields["preferences"] = *req.Preferences
	}
	if len(fields) > 0 {
		if err := h.Clients.UpdateFields(userID, fields); err != nil {
			getLogger(c).Error("profile update failed", zap.String("userID", userID), zap.Error(err))
			utils.JSONAppError(c, utils.ClassifyBackendError("failed to update profile", err))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

// GetProfileHandler returns the caller's profile row.
func (h *ProfileHandler) GetProfileHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Not authenticated", "")
		return
	}

	profile, err := h.Clients.GetByID(userID)
	if err != nil {
		utils.JSONAppError(c, utils.ClassifyBackendError("failed to fetch profile", err))
		return
	}
	if profile == nil {
		utils.JSONError(c, http.StatusNotFound, "Profile not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
