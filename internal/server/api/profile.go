package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/service"
	dto "github.com/IvanChernomyrdin/clubhouse/internal/shared/models"
)

// ProfileRequest — форма страницы профиля. Все поля перезаписываются.
type ProfileRequest struct {
	Name      string `json:"name"`
	DOB       string `json:"dob"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	Interests string `json:"interests"`
}

// SettingsRequest — форма страницы настроек.
type SettingsRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	DOB      string `json:"dob"`
}

// Profile — данные профиля. GET /profile и GET /settings отдают одно и то же.
//
// @Summary      Profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.ProfileResponse
// @Router       /profile [get]
// @Router       /settings [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	u, err := h.Svc.Profile.Get(r.Context(), userID)
	if err != nil {
		h.fail(w, "get profile", err, "user_id", userID.String())
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponse{User: userView(u)})
}

// UpdateProfile перезаписывает name, dob, email, bio, interests.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ProfileRequest true "Profile"
// @Success      200 {object} models.ProfileResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Email already taken"
// @Router       /profile [post]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}
	var req ProfileRequest
	if err := h.decode(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.Svc.Profile.UpdateProfile(r.Context(), userID, service.ProfileInput{
		Name:      req.Name,
		DOB:       req.DOB,
		Email:     req.Email,
		Bio:       req.Bio,
		Interests: req.Interests,
	})
	if err != nil {
		h.fail(w, "update profile", err, "user_id", userID.String())
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponse{User: userView(u), Flash: "Profile updated"})
}

// UpdateSettings перезаписывает username, name, dob.
//
// @Summary      Update settings
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SettingsRequest true "Settings"
// @Success      200 {object} models.ProfileResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Username already taken"
// @Router       /settings [post]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}
	var req SettingsRequest
	if err := h.decode(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.Svc.Profile.UpdateSettings(r.Context(), userID, service.SettingsInput{
		Username: req.Username,
		Name:     req.Name,
		DOB:      req.DOB,
	})
	if err != nil {
		h.fail(w, "update settings", err, "user_id", userID.String())
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponse{User: userView(u), Flash: "Settings saved"})
}

// DeleteAccount удаляет пользователя, его членство в клубах и сессию.
//
// @Summary      Delete account
// @Tags         profile
// @Security     BearerAuth
// @Success      204
// @Success      303 "Redirect to /signup"
// @Router       /delete_account [get]
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Profile.DeleteAccount(r.Context(), userID); err != nil {
		h.fail(w, "delete account", err, "user_id", userID.String())
		return
	}
	h.Log.Info("account deleted", zapUser(userID))

	h.clearSession(w)
	navigate(w, r, PathSignup, http.StatusNoContent, nil)
}
