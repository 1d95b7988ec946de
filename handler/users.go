package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/internal/logging"
	"github.com/MrEthical07/goSession/middleware"
)

// User administration messages.
const (
	MsgUserCreated      = "Usuário criado com sucesso!"
	MsgUserUpdated      = "Usuário atualizado com sucesso!"
	MsgUserDeleted      = "Usuário deletado com sucesso!"
	MsgUserStatusSaved  = "Status do usuário atualizado com sucesso!"
	MsgUserNotFound     = "Usuário não encontrado"
	MsgUsernameRequired = "O nome de usuário é obrigatório"
	MsgUsernameShort    = "O nome de usuário deve ter pelo menos 3 caracteres"
	MsgPasswordRequired = "A senha é obrigatória"
	MsgPasswordShort    = "A senha deve ter pelo menos 6 caracteres"
	MsgNameRequired     = "O nome é obrigatório"
	MsgInvalidRole      = "Nível de acesso inválido"
	MsgUsernameTaken    = "Já existe um usuário com este nome de usuário"
	MsgSelfDelete       = "Você não pode deletar seu próprio usuário"
	MsgHasSessions      = "Não é possível deletar este usuário pois ele possui sessões ativas"
	MsgListFailed       = "Erro ao carregar usuários. Tente novamente mais tarde"
	MsgCreateFailed     = "Erro ao criar usuário. Tente novamente"
	MsgUpdateFailed     = "Erro ao atualizar usuário. Tente novamente"
	MsgDeleteFailed     = "Erro ao deletar usuário. Tente novamente"
)

var validationMessages = []struct {
	err error
	msg string
}{
	{account.ErrUsernameRequired, MsgUsernameRequired},
	{account.ErrUsernameTooShort, MsgUsernameShort},
	{account.ErrPasswordRequired, MsgPasswordRequired},
	{account.ErrPasswordTooShort, MsgPasswordShort},
	{account.ErrNameRequired, MsgNameRequired},
	{account.ErrInvalidRole, MsgInvalidRole},
	{account.ErrUsernameTaken, MsgUsernameTaken},
}

func validationMessage(err error) (string, bool) {
	for _, m := range validationMessages {
		if errors.Is(err, m.err) {
			return m.msg, true
		}
	}
	return "", false
}

// Users serves the administrator-only user management routes. The router
// returned by Routes expects Guard and RequireOperation(OpManageUsers) to run
// in front of it.
type Users struct {
	engine  *goSession.Engine
	svc     *account.Service
	base    string
	onError middleware.ErrorHandler
	logger  *slog.Logger
}

// NewUsers returns user administration handlers mounted under base, for
// example "/admin/usuarios".
func NewUsers(engine *goSession.Engine, svc *account.Service, base string, logger *slog.Logger) *Users {
	return &Users{
		engine:  engine,
		svc:     svc,
		base:    base,
		onError: middleware.DefaultErrorHandler,
		logger:  logging.Component(logger, "handler.users"),
	}
}

// Routes registers:
//
//	GET  /               list users as JSON
//	GET  /{id}           one user as JSON
//	POST /               create
//	POST /{id}           update
//	POST /{id}/status    activate or deactivate (field active)
//	POST /deletar/{id}   delete
func (u *Users) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", u.handleList)
	r.Post("/", u.handleCreate)
	r.Post("/deletar/{id}", u.handleDelete)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", u.handleGet)
		r.Post("/", u.handleUpdate)
		r.Post("/status", u.handleStatus)
	})
	return r
}

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	RoleName  string    `json:"roleName"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func viewOf(user *account.User) userView {
	return userView{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role.String(),
		RoleName:  user.Role.DisplayName(),
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (u *Users) redirect(w http.ResponseWriter, r *http.Request, target string, flash goSession.FlashKind, msg string) {
	middleware.Render(w, r, u.engine, goSession.Redirect(target, flash, msg), u.onError)
}

func (u *Users) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := u.svc.List(r.Context())
	if err != nil {
		u.logger.Error("list users", "error", err)
		u.redirect(w, r, u.base, goSession.FlashError, MsgListFailed)
		return
	}
	out := make([]userView, 0, len(users))
	for i := range users {
		out = append(out, viewOf(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (u *Users) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := u.svc.Repository().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if !errors.Is(err, account.ErrNotFound) {
			u.logger.Error("get user", "error", err)
		}
		u.redirect(w, r, u.base, goSession.FlashError, MsgUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(user))
}

func (u *Users) handleCreate(w http.ResponseWriter, r *http.Request) {
	form := u.base + "/novo"
	if err := r.ParseForm(); err != nil {
		u.redirect(w, r, form, goSession.FlashError, MsgCreateFailed)
		return
	}
	_, err := u.svc.Create(r.Context(), account.CreateInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Role:     r.PostFormValue("role"),
		Active:   checkbox(r.PostFormValue("active")),
	})
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			u.redirect(w, r, form, goSession.FlashError, msg)
			return
		}
		u.logger.Error("create user", "error", err)
		u.redirect(w, r, form, goSession.FlashError, MsgCreateFailed)
		return
	}
	u.redirect(w, r, u.base, goSession.FlashSuccess, MsgUserCreated)
}

func (u *Users) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	form := u.base + "/editar/" + id
	if err := r.ParseForm(); err != nil {
		u.redirect(w, r, form, goSession.FlashError, MsgUpdateFailed)
		return
	}
	_, err := u.svc.Update(r.Context(), id, account.UpdateInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Role:     r.PostFormValue("role"),
		Active:   checkbox(r.PostFormValue("active")),
	})
	switch {
	case err == nil:
		u.redirect(w, r, u.base, goSession.FlashSuccess, MsgUserUpdated)
	case errors.Is(err, account.ErrNotFound):
		u.redirect(w, r, u.base, goSession.FlashError, MsgUserNotFound)
	default:
		if msg, ok := validationMessage(err); ok {
			u.redirect(w, r, form, goSession.FlashError, msg)
			return
		}
		u.logger.Error("update user", "user_id", id, "error", err)
		u.redirect(w, r, form, goSession.FlashError, MsgUpdateFailed)
	}
}

func (u *Users) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		u.redirect(w, r, u.base, goSession.FlashError, MsgUpdateFailed)
		return
	}
	_, err := u.svc.SetActive(r.Context(), id, checkbox(r.PostFormValue("active")))
	switch {
	case err == nil:
		u.redirect(w, r, u.base, goSession.FlashSuccess, MsgUserStatusSaved)
	case errors.Is(err, account.ErrNotFound):
		u.redirect(w, r, u.base, goSession.FlashError, MsgUserNotFound)
	default:
		u.logger.Error("set user status", "user_id", id, "error", err)
		u.redirect(w, r, u.base, goSession.FlashError, MsgUpdateFailed)
	}
}

func (u *Users) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var actor string
	if ident, ok := goSession.IdentityFromContext(r.Context()); ok {
		actor = ident.User.ID
	}

	err := u.svc.Delete(r.Context(), actor, id)
	switch {
	case err == nil:
		u.redirect(w, r, u.base, goSession.FlashSuccess, MsgUserDeleted)
	case errors.Is(err, account.ErrSelfDelete):
		u.redirect(w, r, u.base, goSession.FlashError, MsgSelfDelete)
	case errors.Is(err, account.ErrNotFound):
		u.redirect(w, r, u.base, goSession.FlashError, MsgUserNotFound)
	case errors.Is(err, account.ErrHasSessions):
		u.redirect(w, r, u.base, goSession.FlashError, MsgHasSessions)
	default:
		u.logger.Error("delete user", "user_id", id, "error", err)
		u.redirect(w, r, u.base, goSession.FlashError, MsgDeleteFailed)
	}
}

// checkbox reads an HTML checkbox value.
func checkbox(v string) bool {
	return v == "on" || v == "true" || v == "1"
}
