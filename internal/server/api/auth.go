// HTTP-хендлеры регистрации, логина, logout и refresh токенов
package api

import (
	"errors"
	"net/http"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/service"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// LoginFailedMessage — единый ответ на неверный email или пароль.
const LoginFailedMessage = "Please check your login details and try again."

// FormResponse описывает форму страницы (GET /signup, /login, /forgotpassword).
type FormResponse struct {
	Form   string   `json:"form"`
	Fields []string `json:"fields"`
}

// SignupRequest описывает тело запроса регистрации пользователя.
type SignupRequest struct {
	Name     string `json:"name"`
	DOB      string `json:"dob"` // YYYY-MM-DD, можно пустую
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse описывает успешный ответ регистрации.
type RegisterResponse struct {
	UserID string `json:"user_id"`
}

// LoginRequest описывает тело запроса входа пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse описывает успешный ответ входа пользователя.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest описывает тело запроса обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignupPage — поля формы регистрации.
//
// @Summary      Signup form
// @Tags         auth
// @Produce      json
// @Success      200 {object} FormResponse
// @Router       /signup [get]
func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FormResponse{Form: "signup", Fields: []string{"name", "dob", "email", "password"}})
}

// @Summary      Login form
// @Tags         auth
// @Produce      json
// @Success      200 {object} FormResponse
// @Router       /login [get]
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FormResponse{Form: "login", Fields: []string{"email", "password"}})
}

// Signup обрабатывает регистрацию пользователя.
//
// Ответы:
//   - 303 See Other на /login (JSON-клиенту 201 Created): регистрация успешна;
//   - 400 Bad Request: неверный JSON, невалидный email, короткий пароль или дата;
//   - 409 Conflict: email уже зарегистрирован;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup request"
// @Success      201 {object} RegisterResponse
// @Success      303 "Redirect to /login"
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := h.decode(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.Svc.Auth.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		DOB:      req.DOB,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, "register", err)
		return
	}

	navigate(w, r, PathLogin, http.StatusCreated, RegisterResponse{UserID: id.String()})
}

// Login обрабатывает вход пользователя.
//
// При успехе выставляет HttpOnly cookie сессии. Неизвестный email и
// неверный пароль неразличимы для клиента.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} LoginResponse
// @Success      303 "Redirect to /home"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decode(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	pair, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, serr.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, errors.New(LoginFailedMessage))
			return
		}
		h.fail(w, "login", err)
		return
	}

	h.setSession(w, pair)
	navigate(w, r, PathHome, http.StatusOK, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout отзывает refresh-сессии пользователя и удаляет cookie.
//
// @Summary      Log out
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Success      303 "Redirect to /login"
// @Router       /logout [get]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	h.clearSession(w)
	if err := h.Svc.Auth.Logout(r.Context(), userID); err != nil {
		h.fail(w, "logout", err, "user_id", userID.String())
		return
	}

	navigate(w, r, PathLogin, http.StatusNoContent, nil)
}

// Refresh обрабатывает обновление access-токена по refresh-токену.
//
// Refresh-токен берётся из тела запроса, а если его там нет, из cookie.
//
// Ответы:
//   - 200 OK: успешное обновление токенов;
//   - 400 Bad Request: неверный JSON или нет refresh токена;
//   - 401 Unauthorized: refresh токен недействителен/просрочен/отозван;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest false "Refresh request"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if r.ContentLength != 0 {
		if err := h.decode(w, r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err)
			return
		}
	}
	if req.RefreshToken == "" {
		if c, err := r.Cookie(h.Cookies.RefreshName); err == nil {
			req.RefreshToken = c.Value
		}
	}

	pair, err := h.Svc.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.fail(w, "refresh", err)
		return
	}

	h.setSession(w, pair)
	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// @Summary      Forgot password form
// @Tags         auth
// @Produce      json
// @Success      200 {object} FormResponse
// @Router       /forgotpassword [get]
func (h *Handler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FormResponse{Form: "forgotpassword", Fields: []string{"email"}})
}

// ForgotPassword — сброс пароля по почте не реализован, пароль меняет
// администратор через clubctl user passwd.
//
// @Summary      Forgot password
// @Tags         auth
// @Produce      json
// @Failure      501 {object} ErrorResponse
// @Router       /forgotpassword [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotImplemented,
		errors.New("password reset is not available, ask an administrator to run clubctl user passwd"))
}
