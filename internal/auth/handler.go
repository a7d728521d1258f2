package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/bloghub/bloghub/internal/account"
	"github.com/bloghub/bloghub/internal/httputil"
	"github.com/bloghub/bloghub/internal/logging"
	"github.com/bloghub/bloghub/templates"
)

// Handler contains HTTP handlers for the account lifecycle endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AuthenticateResponse is the login response body
type AuthenticateResponse struct {
	Success bool          `json:"success"`
	User    *account.Info `json:"user"`
	Token   string        `json:"token"`
	Message string        `json:"message"`
}

// CurrentAccountResponse wraps the authenticated account info
type CurrentAccountResponse struct {
	Success bool          `json:"success"`
	User    *account.Info `json:"user"`
}

// Register handles account registration
// @Summary      Register a new account
// @Description  Create a new account with username, email and password. A verification email is sent.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration fields"
// @Success      201 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation failure or duplicate username/email"
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /users/api/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		logger.Warn("registration failed: validation error", "error", err.Error())
		respondValidationError(w, err)
		return
	}

	created, err := h.service.Register(r.Context(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrDuplicateUsername):
			logger.Warn("registration failed: username taken", "username", req.Username)
			httputil.RespondError(w, "Username is already taken.", httputil.CodeDuplicateUsername, http.StatusBadRequest)
		case errors.Is(err, account.ErrDuplicateEmail):
			logger.Warn("registration failed: email registered", "email", req.Email)
			httputil.RespondError(w, "Email is already registered.", httputil.CodeDuplicateEmail, http.StatusBadRequest)
		default:
			logger.Error("registration failed: internal error", "error", err.Error())
			httputil.RespondError(w, "An error occurred.", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("account registered", "account_id", created.ID, "username", created.Username)

	httputil.RespondMessage(w, "Your account is created, please verify your email address.", http.StatusCreated)
}

// VerifyNow handles the verification link from the email
// @Summary      Verify an account
// @Description  Exchange the emailed verification code for the verified state. Single-use.
// @Tags         users
// @Produce      html
// @Param        verificationCode path string true "Verification code"
// @Success      200 {string} string "Confirmation page"
// @Failure      401 {object} httputil.ErrorResponse "Invalid verification code"
// @Router       /users/verify-now/{verificationCode} [get]
func (h *Handler) VerifyNow(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	code := chi.URLParam(r, "verificationCode")

	verified, err := h.service.Verify(r.Context(), code)
	if err != nil {
		if errors.Is(err, ErrInvalidVerificationCode) {
			logger.Warn("verification failed: invalid code")
			httputil.RespondError(w, "Unauthorized access. Invalid verification code.", httputil.CodeInvalidVerificationCode, http.StatusUnauthorized)
			return
		}
		logger.Error("verification failed: internal error", "error", err.Error())
		respondHTML(w, templates.ErrorPage, http.StatusInternalServerError)
		return
	}

	logger.Info("account verified", "account_id", verified.ID)

	respondHTML(w, templates.VerificationSuccess, http.StatusOK)
}

// Authenticate handles login
// @Summary      Authenticate
// @Description  Check credentials and issue a bearer session token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body AuthenticateRequest true "Credentials"
// @Success      200 {object} AuthenticateResponse
// @Failure      401 {object} httputil.ErrorResponse "Incorrect password"
// @Failure      404 {object} httputil.ErrorResponse "Username not found"
// @Router       /users/api/authenticate [post]
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req AuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	info, token, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameNotFound):
			logger.Warn("authentication failed: username not found", "username", req.Username)
			httputil.RespondError(w, "Username not found.", httputil.CodeUsernameNotFound, http.StatusNotFound)
		case errors.Is(err, ErrIncorrectPassword):
			logger.Warn("authentication failed: incorrect password", "username", req.Username)
			httputil.RespondError(w, "Incorrect password.", httputil.CodeIncorrectPassword, http.StatusUnauthorized)
		default:
			logger.Error("authentication failed: internal error", "error", err.Error())
			httputil.RespondError(w, "An error occurred.", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("account authenticated", "account_id", info.ID)

	httputil.RespondJSON(w, AuthenticateResponse{
		Success: true,
		User:    info,
		Token:   "Bearer " + token,
		Message: "You are now logged in.",
	}, http.StatusOK)
}

// CurrentAccount returns the authenticated account's info
// @Summary      Current account
// @Description  Return the sanitized info of the account behind the bearer token
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} CurrentAccountResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /users/api/authenticate [get]
func (h *Handler) CurrentAccount(w http.ResponseWriter, r *http.Request) {
	info, ok := AccountFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication token", httputil.CodeMissingToken, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, CurrentAccountResponse{Success: true, User: info}, http.StatusOK)
}

// RequestReset initiates the password reset flow
// @Summary      Request password reset
// @Description  Store a time-bound reset token and email a reset link
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body ResetRequest true "Account email"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse "Account not found"
// @Router       /users/api/reset-password [put]
func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			logger.Warn("reset request failed: account not found", "email", req.Email)
			httputil.RespondError(w, "User not found.", httputil.CodeAccountNotFound, http.StatusNotFound)
			return
		}
		logger.Error("reset request failed: internal error", "error", err.Error())
		httputil.RespondError(w, "An error occurred.", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("password reset requested", "email", req.Email)

	httputil.RespondMessage(w, "Password reset link is sent to your email.", http.StatusOK)
}

// ResetPasswordPage serves the reset form behind the emailed link
// @Summary      Password reset form
// @Description  Serve the reset form if the token is valid and unexpired
// @Tags         users
// @Produce      html
// @Param        resetPasswordToken path string true "Reset token"
// @Success      200 {string} string "Reset form"
// @Failure      401 {object} httputil.ErrorResponse "Invalid or expired token"
// @Router       /users/reset-password-now/{resetPasswordToken} [get]
func (h *Handler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	token := chi.URLParam(r, "resetPasswordToken")

	valid, err := h.service.ValidateResetToken(r.Context(), token)
	if err != nil {
		logger.Error("reset token validation failed: internal error", "error", err.Error())
		respondHTML(w, templates.ErrorPage, http.StatusInternalServerError)
		return
	}
	if !valid {
		logger.Warn("reset token validation failed: invalid or expired token")
		httputil.RespondError(w, "Password reset token is invalid or has expired.", httputil.CodeInvalidResetToken, http.StatusUnauthorized)
		return
	}

	respondHTML(w, templates.ResetForm, http.StatusOK)
}

// ResetPasswordNow completes the password reset
// @Summary      Complete password reset
// @Description  Rotate the password using a valid reset token. Single-use.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body ResetNowRequest true "Reset token and new password"
// @Success      200 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.ErrorResponse "Invalid or expired token"
// @Router       /users/reset-password-now [post]
func (h *Handler) ResetPasswordNow(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ResetNowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.ResetPasswordToken, req.Password); err != nil {
		if errors.Is(err, ErrResetTokenInvalid) {
			logger.Warn("password reset failed: invalid or expired token")
			httputil.RespondError(w, "Password reset token is invalid or has expired.", httputil.CodeInvalidResetToken, http.StatusUnauthorized)
			return
		}
		logger.Error("password reset failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Something went wrong.", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("password reset completed")

	httputil.RespondMessage(w, "Your password reset request is complete and your password is changed.", http.StatusOK)
}

// respondValidationError maps ozzo validation errors to a 400 with the
// field-level message, and anything else to a generic 400.
func respondValidationError(w http.ResponseWriter, err error) {
	var fieldErrors validation.Errors
	if errors.As(err, &fieldErrors) {
		httputil.RespondError(w, fieldErrors.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}
	httputil.RespondError(w, "validation failed", httputil.CodeValidationFailed, http.StatusBadRequest)
}

func respondHTML(w http.ResponseWriter, page []byte, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(page)
}
