// Package http реализует маршрутизацию HTTP-слоя сервера clubhouse.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - ограничение частоты /login и /signup;
//   - проверку сессии на защищённых маршрутах.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/api"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер регистрирует:
//   - middleware логирования и восстановления после паники для всех запросов;
//   - публичные страницы входа, регистрации и refresh токенов;
//   - группу защищённых маршрутов (без сессии редирект на /login).
//
// limiter == nil отключает ограничение частоты.
func NewRouter(h *api.Handler, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	throttle := func(next http.HandlerFunc) http.Handler {
		if limiter == nil {
			return next
		}
		return limiter.Middleware()(next)
	}

	// Публичные пути
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, api.PathHome, http.StatusSeeOther)
	})
	r.Get("/signup", h.SignupPage)
	r.Method(http.MethodPost, "/signup", throttle(h.Signup))
	r.Get("/login", h.LoginPage)
	r.Method(http.MethodPost, "/login", throttle(h.Login))
	r.Get("/forgotpassword", h.ForgotPasswordPage)
	r.Post("/forgotpassword", h.ForgotPassword)
	r.Post("/auth/refresh", h.Refresh)

	// защищённые пути
	r.Group(func(r chi.Router) {
		r.Use(h.Verifier.AuthMiddleware())

		r.Get("/logout", h.Logout)
		r.Get("/home", h.Home)
		r.Get("/calendar", h.MyCommunity)

		r.Get("/profile", h.Profile)
		r.Post("/profile", h.UpdateProfile)
		r.Get("/settings", h.Profile)
		r.Post("/settings", h.UpdateSettings)
		r.Get("/delete_account", h.DeleteAccount)

		r.Get("/community", h.Community)
		r.Get("/my_community", h.MyCommunity)
		r.Post("/join", h.Join)
		r.Post("/notInterested", h.NotInterested)
		r.Post("/drop_out", h.NotInterested)

		r.Get("/messages", h.Messages)
		r.Get("/view_conversation/{sender}", h.ViewConversation)
		r.Post("/view_conversation/{sender}", h.SendMessage)
		r.Get("/notifications", h.Notifications)
		r.Post("/notifications/read", h.MarkNotificationsRead)

		// страница клуба: статические маршруты выше имеют приоритет
		r.Get("/{club}", h.ClubPage)
	})

	return r
}
