package dto

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type CreateAdminUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type CustomerLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	TCNummer string `json:"tcNummer" binding:"required"`
	Password string `json:"password"`
}

type CustomerChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type CustomerSetupPasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	TCNummer string `json:"tcNummer" binding:"required"`
	Password string `json:"password" binding:"required"`
}
