package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clipperhub/barbershop-platform/internal/config"
	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/httpresp"
	"github.com/clipperhub/barbershop-platform/internal/logger"
	"github.com/clipperhub/barbershop-platform/internal/middleware"
	"github.com/clipperhub/barbershop-platform/internal/models"
	"github.com/clipperhub/barbershop-platform/internal/tokenstore"
	"github.com/clipperhub/barbershop-platform/internal/validators"
)

type AuthHandler struct {
	db      *gorm.DB
	config  *config.Config
	revoked *tokenstore.Store
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, revoked *tokenstore.Store) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, revoked: revoked}
}

// --------- Requests ---------

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`

	ShopName      string `json:"shop_name"`
	ShopOwnerName string `json:"shop_owner_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// --------- Handlers ---------

// Register handles self-signup. Only customer and barbershop roles may
// self-register; admin tiers are minted by their parent tier.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid registration payload.", err.Error())
		return
	}

	role := domain.RoleCustomer
	if req.Role != "" {
		parsed, ok := domain.ParseRole(req.Role)
		if !ok || (parsed != domain.RoleCustomer && parsed != domain.RoleBarbershop) {
			httperr.BadRequest(c, "Role not allowed for self-registration.")
			return
		}
		role = parsed
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "The email domain does not appear to be valid.")
		return
	}

	var count int64
	h.db.Model(&models.Account{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "An account with this email already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "Failed to process password.")
		return
	}

	acct := models.Account{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role.String(),
		IsActive:     true,
	}
	if role == domain.RoleBarbershop {
		acct.ShopName = req.ShopName
		acct.ShopOwnerName = req.ShopOwnerName
	}

	if err := h.db.Create(&acct).Error; err != nil {
		httperr.Internal(c, "Failed to create account.")
		return
	}

	h.issueVerificationToken(c, &acct)

	access, refresh, err := h.generateTokens(&acct)
	if err != nil {
		httperr.Internal(c, "Failed to generate tokens.")
		return
	}

	httpresp.Created(c, "Account registered successfully.", gin.H{
		"user":          accountView(&acct),
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid login payload.", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var acct models.Account
	if err := h.db.Where("email = ?", email).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.recordLogin(nil, email, models.LoginFailed, "unknown email")
			httperr.Unauthorized(c, "Invalid credentials.")
			return
		}
		httperr.Internal(c, "Login failed.")
		return
	}

	if acct.IsDeleted() || !acct.IsActive {
		h.recordLogin(&acct.ID, email, models.LoginBlocked, "account inactive or archived")
		httperr.Unauthorized(c, "Account is not active.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)); err != nil {
		h.recordLogin(&acct.ID, email, models.LoginFailed, "bad password")
		httperr.Unauthorized(c, "Invalid credentials.")
		return
	}

	access, refresh, err := h.generateTokens(&acct)
	if err != nil {
		httperr.Internal(c, "Failed to generate tokens.")
		return
	}

	now := time.Now()
	h.db.Model(&acct).Update("last_login_at", now)
	h.recordLogin(&acct.ID, email, models.LoginSuccess, "")

	httpresp.OK(c, "Login successful.", gin.H{
		"user":          accountView(&acct),
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout denylists the current token's jti until its natural expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	jtiVal, _ := c.Get(middleware.ContextTokenID)
	jti, _ := jtiVal.(string)
	if jti == "" || h.revoked == nil {
		httpresp.OK(c, "Logged out.", nil)
		return
	}

	if err := h.revoked.Revoke(c.Request.Context(), jti, h.config.AccessTokenTTL); err != nil {
		logger.Error("token revocation failed", zap.Error(err))
		httperr.Internal(c, "Logout failed.")
		return
	}
	httpresp.OK(c, "Logged out.", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid refresh payload.", err.Error())
		return
	}

	claims, err := h.parseToken(req.RefreshToken)
	if err != nil {
		httperr.Unauthorized(c, "Invalid refresh token.")
		return
	}
	if kind, _ := claims["kind"].(string); kind != "refresh" {
		httperr.Unauthorized(c, "Not a refresh token.")
		return
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		httperr.Unauthorized(c, "Invalid refresh token.")
		return
	}
	if jti, _ := claims["jti"].(string); jti != "" && h.revoked != nil {
		if gone, err := h.revoked.IsRevoked(c.Request.Context(), jti); err == nil && gone {
			httperr.Unauthorized(c, "Refresh token has been revoked.")
			return
		}
	}

	var acct models.Account
	if err := h.db.Where("id = ? AND deleted_at IS NULL", uint(sub)).First(&acct).Error; err != nil {
		httperr.Unauthorized(c, "Account no longer active.")
		return
	}
	if !acct.IsActive {
		httperr.Unauthorized(c, "Account is deactivated.")
		return
	}

	access, refresh, err := h.generateTokens(&acct)
	if err != nil {
		httperr.Internal(c, "Failed to generate tokens.")
		return
	}
	httpresp.OK(c, "Token refreshed.", gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor := middleware.Actor(c)
	httpresp.OK(c, "Profile retrieved successfully.", accountView(actor))
}

type UpdateProfileRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
	PostalCode    *string `json:"postal_code"`
	ShopName      *string `json:"shop_name"`
	ShopOwnerName *string `json:"shop_owner_name"`
	ShopLogoURL   *string `json:"shop_logo_url"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor := middleware.Actor(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid profile payload.", err.Error())
		return
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&actor.FirstName, req.FirstName)
	applyString(&actor.LastName, req.LastName)
	applyString(&actor.Phone, req.Phone)
	applyString(&actor.Address, req.Address)
	applyString(&actor.City, req.City)
	applyString(&actor.State, req.State)
	applyString(&actor.Country, req.Country)
	applyString(&actor.PostalCode, req.PostalCode)

	if domain.Role(actor.Role) == domain.RoleBarbershop {
		applyString(&actor.ShopName, req.ShopName)
		applyString(&actor.ShopOwnerName, req.ShopOwnerName)
		applyString(&actor.ShopLogoURL, req.ShopLogoURL)
	}

	if err := h.db.Save(actor).Error; err != nil {
		httperr.Internal(c, "Failed to update profile.")
		return
	}
	httpresp.OK(c, "Profile updated successfully.", accountView(actor))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor := middleware.Actor(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid payload.", err.Error())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(req.OldPassword)); err != nil {
		httperr.BadRequest(c, "Current password is incorrect.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "Failed to process password.")
		return
	}
	if err := h.db.Model(actor).Update("password_hash", string(hashed)).Error; err != nil {
		httperr.Internal(c, "Failed to change password.")
		return
	}
	httpresp.OK(c, "Password changed successfully.", nil)
}

// ForgotPassword always answers success so the endpoint cannot be used to
// probe which emails exist.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid payload.", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var acct models.Account
	if err := h.db.Where("email = ? AND deleted_at IS NULL", email).First(&acct).Error; err == nil {
		token := models.PasswordResetToken{
			AccountID: acct.ID,
			Token:     uuid.NewString(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		if err := h.db.Create(&token).Error; err == nil {
			// Delivery is out of scope; operators pick the token up from logs.
			logger.Info("password reset token issued",
				zap.Uint("account_id", acct.ID),
				zap.String("token", token.Token),
			)
		}
	}

	httpresp.OK(c, "If the email exists, a reset link has been sent.", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid payload.", err.Error())
		return
	}

	var token models.PasswordResetToken
	if err := h.db.Where("token = ?", req.Token).First(&token).Error; err != nil {
		httperr.BadRequest(c, "Invalid or expired reset token.")
		return
	}
	if !token.IsValid(time.Now()) {
		httperr.BadRequest(c, "Invalid or expired reset token.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "Failed to process password.")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Account{}).
			Where("id = ?", token.AccountID).
			Update("password_hash", string(hashed)).Error; err != nil {
			return err
		}
		return tx.Model(&token).Update("is_used", true).Error
	})
	if err != nil {
		httperr.Internal(c, "Failed to reset password.")
		return
	}
	httpresp.OK(c, "Password reset successfully.", nil)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid payload.", err.Error())
		return
	}

	var token models.EmailVerificationToken
	if err := h.db.Where("token = ?", req.Token).First(&token).Error; err != nil {
		httperr.BadRequest(c, "Invalid or expired verification token.")
		return
	}
	if !token.IsValid(time.Now()) {
		httperr.BadRequest(c, "Invalid or expired verification token.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Account{}).
			Where("id = ?", token.AccountID).
			Update("is_email_verified", true).Error; err != nil {
			return err
		}
		return tx.Model(&token).Update("is_used", true).Error
	})
	if err != nil {
		httperr.Internal(c, "Failed to verify email.")
		return
	}
	httpresp.OK(c, "Email verified successfully.", nil)
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	actor := middleware.Actor(c)
	if actor.IsEmailVerified {
		httperr.BadRequest(c, "Email is already verified.")
		return
	}
	h.issueVerificationToken(c, actor)
	httpresp.OK(c, "Verification email sent.", nil)
}

// --------- Helpers ---------

func (h *AuthHandler) issueVerificationToken(c *gin.Context, acct *models.Account) {
	token := models.EmailVerificationToken{
		AccountID: acct.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := h.db.Create(&token).Error; err != nil {
		logger.Error("verification token issue failed", zap.Error(err))
		return
	}
	logger.Info("email verification token issued",
		zap.Uint("account_id", acct.ID),
		zap.String("token", token.Token),
	)
}

func (h *AuthHandler) recordLogin(accountID *uint, email, status, reason string) {
	row := models.LoginHistory{
		AccountID: accountID,
		Email:     email,
		Status:    status,
		Reason:    reason,
	}
	if err := h.db.Create(&row).Error; err != nil {
		logger.Error("login history write failed", zap.Error(err))
	}
}

func (h *AuthHandler) generateTokens(acct *models.Account) (string, string, error) {
	access, err := h.signToken(acct, "access", h.config.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := h.signToken(acct, "refresh", h.config.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (h *AuthHandler) signToken(acct *models.Account, kind string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  acct.ID,
		"role": acct.Role,
		"kind": kind,
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func (h *AuthHandler) parseToken(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(h.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenMalformed
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}
	return claims, nil
}

func accountView(a *models.Account) gin.H {
	view := gin.H{
		"id":                a.ID,
		"email":             a.Email,
		"first_name":        a.FirstName,
		"last_name":         a.LastName,
		"name":              a.FullName(),
		"phone":             a.Phone,
		"role":              a.Role,
		"is_active":         a.IsActive,
		"is_email_verified": a.IsEmailVerified,
		"created_at":        a.CreatedAt,
	}
	if domain.Role(a.Role) == domain.RoleBarbershop {
		view["shop_name"] = a.ShopName
		view["shop_owner_name"] = a.ShopOwnerName
		view["shop_logo_url"] = a.ShopLogoURL
	}
	return view
}
