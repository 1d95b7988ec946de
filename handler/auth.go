package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/middleware"
)

// Auth serves the login and logout endpoints of one or both areas.
type Auth struct {
	engine  *goSession.Engine
	page    http.Handler
	onError middleware.ErrorHandler
}

// NewAuth returns login handlers for engine. page renders the login form on
// GET; nil answers 204 so an upstream template layer can own the page.
func NewAuth(engine *goSession.Engine, page http.Handler, onError middleware.ErrorHandler) *Auth {
	if page == nil {
		page = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	}
	if onError == nil {
		onError = middleware.DefaultErrorHandler
	}
	return &Auth{engine: engine, page: page, onError: onError}
}

// Routes mounts GET/POST login and GET logout for area, relative to the
// router it is mounted on (for example "/auth" or "/admin/auth").
//
//	GET  /login   login form, bounced to the landing page when authenticated
//	POST /login   form fields username and password
//	GET  /logout
//	POST /logout  form field fromAdmin=true selects the admin area
func (a *Auth) Routes(area goSession.Area) chi.Router {
	r := chi.NewRouter()
	r.With(middleware.RedirectIfAuthenticated(a.engine, middleware.WithErrorHandler(a.onError))).
		Get("/login", a.page.ServeHTTP)
	r.Post("/login", a.Login(area))
	r.Get("/logout", a.Logout(area))
	r.Post("/logout", a.Logout(area))
	return r
}

// Login handles the submitted form.
func (a *Auth) Login(area goSession.Area) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			out := goSession.Redirect(a.engine.Paths().LoginPath(area), goSession.FlashError, goSession.MsgFillAllFields)
			middleware.Render(w, r, a.engine, out, a.onError)
			return
		}
		out := a.engine.Login(clientContext(r), goSession.LoginRequest{
			Area:     area,
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		})
		middleware.Render(w, r, a.engine, out, a.onError)
	}
}

// Logout ends the session named by the request credential. A posted
// fromAdmin=true field sends the client to the admin login instead.
func (a *Auth) Logout(area goSession.Area) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := area
		if r.Method == http.MethodPost && r.ParseForm() == nil && r.PostFormValue("fromAdmin") == "true" {
			target = goSession.AreaAdmin
		}
		token := middleware.TokenFromRequest(r, a.engine.CookieName())
		out := a.engine.Logout(clientContext(r), target, token)
		middleware.Render(w, r, a.engine, out, a.onError)
	}
}
