package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/TusharRokade31/dharamshala_backend/config"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
	"github.com/TusharRokade31/dharamshala_backend/models"
	"github.com/TusharRokade31/dharamshala_backend/security"
	"github.com/TusharRokade31/dharamshala_backend/services"
	"github.com/TusharRokade31/dharamshala_backend/utils"
)

const otpKeyPrefix = "password_reset_otp:"

// AuthController handles signup, login and password recovery
type AuthController struct {
	db     *mongo.Client
	google *services.GoogleAuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	return &AuthController{
		db:     db,
		google: services.NewGoogleAuthService(db),
	}
}

// Signup registers a new user or owner account
func (ac *AuthController) Signup(c echo.Context) error {
	var request models.SignupRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(request.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}
	if err := utils.ValidatePassword(request.Password); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	userType := request.UserType
	if userType != "owner" {
		userType = "user"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	usersCollection := config.GetCollection(ac.db, "users")
	count, err := usersCollection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking email",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email is already registered",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	now := time.Now()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Email:          email,
		Password:       string(hashed),
		FullName:       utils.SanitizeInput(request.FullName),
		Phone:          utils.SanitizeInput(request.Phone),
		UserType:       userType,
		IsActive:       true,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := usersCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Email is already registered",
			})
		}
		log.Printf("Failed to create user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data: models.LoginData{
			Token:        token,
			RefreshToken: refreshToken,
			User:         &user,
		},
	})
}

// Login authenticates with email and password
func (ac *AuthController) Login(c echo.Context) error {
	var request models.LoginRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	email, err := utils.SanitizeEmail(request.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err = config.GetCollection(ac.db, "users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		// Same message for unknown email and wrong password
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if user.Password == "" {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "This account uses Google Sign-In",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	now := time.Now()
	_, err = config.GetCollection(ac.db, "users").UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"isActive": true, "lastActivityAt": now, "updatedAt": now}},
	)
	if err != nil {
		log.Printf("Failed to update last activity for %s: %v", user.Email, err)
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginData{
			Token:        token,
			RefreshToken: refreshToken,
			User:         &user,
		},
	})
}

// GoogleLogin signs in with a Google ID token, creating the account on
// first use
func (ac *AuthController) GoogleLogin(c echo.Context) error {
	var request models.GoogleLoginRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "ID token is required",
		})
	}

	loginData, err := ac.google.AuthenticateUser(request.IDToken)
	if err != nil {
		log.Printf("Google authentication failed: %v", err)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Google authentication failed",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    loginData,
	})
}

// Logout blacklists the presented access token until it expires
func (ac *AuthController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" || token == authHeader {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing bearer token",
		})
	}

	claims := middleware.GetUserFromToken(c)
	expiry := time.Now().Add(24 * time.Hour)
	if claims != nil && claims.ExpiresAt > 0 {
		expiry = time.Unix(claims.ExpiresAt, 0)
	}
	middleware.BlacklistToken(token, expiry)

	csrfToken, err := security.GenerateCSRFToken()
	if err != nil {
		log.Printf("Failed to generate CSRF token: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
		Data:    map[string]string{"csrfToken": csrfToken},
	})
}

// ForgotPassword emails a one-time code. The response is identical whether
// or not the email exists.
func (ac *AuthController) ForgotPassword(c echo.Context) error {
	var request models.ForgotPasswordRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email is required",
		})
	}

	email, err := utils.SanitizeEmail(request.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	// Same response whether or not the account exists
	neutral := func() error {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "If the email is registered, a reset code has been sent",
		})
	}

	if err := utils.ValidateOTPAttempts(email, config.RedisClient); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many reset attempts, please try again later",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err = config.GetCollection(ac.db, "users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return neutral()
	}

	otp, err := utils.GenerateSecureOTP(6)
	if err != nil {
		log.Printf("Failed to generate OTP: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate reset code",
		})
	}

	if err := config.RedisClient.Set(ctx, otpKeyPrefix+email, otp, 10*time.Minute).Err(); err != nil {
		log.Printf("Failed to store OTP: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store reset code",
		})
	}

	go func() {
		if err := utils.SendPasswordResetOTP(user.Email, user.FullName, otp); err != nil {
			log.Printf("Failed to send reset email to %s: %v", user.Email, err)
		}
	}()

	return neutral()
}

// ResetPassword verifies the emailed code and sets a new password
func (ac *AuthController) ResetPassword(c echo.Context) error {
	var request models.ResetPasswordRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(request.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}
	if err := utils.ValidatePassword(request.NewPassword); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stored, err := config.RedisClient.Get(ctx, otpKeyPrefix+email).Result()
	if err != nil || stored != request.OTP {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired reset code",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	result, err := config.GetCollection(ac.db, "users").UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": string(hashed), "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reset password",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	config.RedisClient.Del(ctx, otpKeyPrefix+email)
	utils.ClearOTPAttempts(email, config.RedisClient)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
	})
}
