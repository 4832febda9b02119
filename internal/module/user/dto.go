package user

// UpdateProfileRequest represents a profile update request.
type UpdateProfileRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Address *string `json:"address" binding:"omitempty,max=255"`
	Avatar  *string `json:"avatar" binding:"omitempty,url"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

// UpdatePreferencesRequest represents a preferences update request.
type UpdatePreferencesRequest struct {
	EmailNotifications *bool `json:"emailNotifications" binding:"required"`
}
