package profile

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bloghub/bloghub/internal/account"
	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/httputil"
	"github.com/bloghub/bloghub/internal/logging"
	"github.com/bloghub/bloghub/internal/upload"
)

// Handler contains HTTP handlers for profile endpoints
type Handler struct {
	profiles *Repository
	accounts *account.Repository
	uploads  *upload.Storage
}

func NewHandler(profiles *Repository, accounts *account.Repository, uploads *upload.Storage) *Handler {
	return &Handler{
		profiles: profiles,
		accounts: accounts,
		uploads:  uploads,
	}
}

// ProfileResponse wraps a profile payload
type ProfileResponse struct {
	Success bool     `json:"success"`
	Profile *Profile `json:"profile"`
	Message string   `json:"message,omitempty"`
}

// CreateProfile creates the authenticated account's profile
// @Summary      Create profile
// @Description  Create the authenticated account's profile from a multipart form with an optional avatar
// @Tags         profiles
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /profiles/api/create-profile [post]
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	info, ok := auth.AccountFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication token", httputil.CodeMissingToken, http.StatusUnauthorized)
		return
	}

	avatar, err := h.saveAvatar(r)
	if err != nil {
		httputil.RespondError(w, "unsupported avatar file", httputil.CodeUnsupportedFile, http.StatusBadRequest)
		return
	}

	fields := socialFields(r)
	fields.Avatar = avatar

	if _, err := h.profiles.Create(r.Context(), info.ID, fields); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			httputil.RespondError(w, "Your profile already exists.", httputil.CodeProfileExists, http.StatusBadRequest)
			return
		}
		logger.Error("failed to create profile", "error", err.Error())
		httputil.RespondError(w, "Unable to create your profile.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	logger.Info("profile created", "account_id", info.ID)

	httputil.RespondMessage(w, "Profile created successfully.", http.StatusCreated)
}

// MyProfile returns the authenticated account's profile
// @Summary      My profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /profiles/api/my-profile [get]
func (h *Handler) MyProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	info, ok := auth.AccountFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication token", httputil.CodeMissingToken, http.StatusUnauthorized)
		return
	}

	p, err := h.profiles.GetByAccountID(r.Context(), info.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Your profile is not available.", httputil.CodeProfileNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get profile", "error", err.Error())
		httputil.RespondError(w, "Unable to get the profile.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	httputil.RespondJSON(w, ProfileResponse{Success: true, Profile: p}, http.StatusOK)
}

// UpdateProfile updates the authenticated account's profile
// @Summary      Update profile
// @Tags         profiles
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /profiles/api/update-profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	info, ok := auth.AccountFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication token", httputil.CodeMissingToken, http.StatusUnauthorized)
		return
	}

	avatar, err := h.saveAvatar(r)
	if err != nil {
		httputil.RespondError(w, "unsupported avatar file", httputil.CodeUnsupportedFile, http.StatusBadRequest)
		return
	}

	fields := socialFields(r)
	fields.Avatar = avatar

	p, err := h.profiles.Update(r.Context(), info.ID, fields)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Your profile is not available.", httputil.CodeProfileNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update profile", "error", err.Error())
		httputil.RespondError(w, "Unable to edit the profile.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	logger.Info("profile updated", "account_id", info.ID)

	httputil.RespondJSON(w, ProfileResponse{
		Success: true,
		Profile: p,
		Message: "Your profile is now updated.",
	}, http.StatusOK)
}

// UserProfile returns a public profile by username
// @Summary      Public profile
// @Tags         profiles
// @Produce      json
// @Param        username path string true "Username"
// @Success      200 {object} ProfileResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /profiles/api/profile-user/{username} [get]
func (h *Handler) UserProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	username := chi.URLParam(r, "username")

	acc, err := h.accounts.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			httputil.RespondError(w, "User is not found.", httputil.CodeAccountNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get account", "error", err.Error())
		httputil.RespondError(w, "Something went wrong.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	p, err := h.profiles.GetByAccountID(r.Context(), acc.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Profile is not found.", httputil.CodeProfileNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get profile", "error", err.Error())
		httputil.RespondError(w, "Something went wrong.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	httputil.RespondJSON(w, ProfileResponse{Success: true, Profile: p}, http.StatusOK)
}

// saveAvatar stores the optional avatar file and returns its public URL, or
// an empty string when the form carries no file.
func (h *Handler) saveAvatar(r *http.Request) (string, error) {
	url, err := h.uploads.Save(r, "avatar", "avatars")
	if err != nil {
		if errors.Is(err, upload.ErrNoFile) {
			return "", nil
		}
		return "", err
	}
	return url, nil
}

func socialFields(r *http.Request) Fields {
	return Fields{
		Facebook:  r.FormValue("facebook"),
		Twitter:   r.FormValue("twitter"),
		Linkedin:  r.FormValue("linkedin"),
		Instagram: r.FormValue("instagram"),
	}
}
