package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/render"
	pkgauth "github.com/GlebRadaev/proxyconsole/pkg/auth"
	"github.com/GlebRadaev/proxyconsole/pkg/utils"
)

type Service interface {
	Login(ctx context.Context, username, password string) (*domain.UserProfile, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.UserProfile, error)
	Session(ctx context.Context) (domain.Session, error)
	UpdateProfile(ctx context.Context, upd dto.ProfileUpdateDTO) (*domain.UserProfile, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

// Navigator tells the handler where a fresh or finished session lands.
type Navigator interface {
	AfterLogin() string
	LoginPath() string
}

type AuthHandler struct {
	authService Service
	nav         Navigator
}

func New(authService Service, nav Navigator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		nav:         nav,
	}
}

// LoginPage is only reachable while signed out; the guard sends signed in
// operators away from it.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Sign in to continue"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.LoginViewDTO{
		User:     user,
		Redirect: h.nav.AfterLogin(),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		render.Error(w, r, err)
		return
	}
	http.Redirect(w, r, h.nav.LoginPath(), http.StatusSeeOther)
}

// Profile refetches the operator profile, so a stale token is noticed here.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.CurrentUser(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.profileView(r.Context(), user))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.authService.UpdateProfile(r.Context(), req)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.profileView(r.Context(), user))
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.authService.ChangePassword(r.Context(), req.OldPassword, req.NewPassword); err != nil {
		render.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) profileView(ctx context.Context, user *domain.UserProfile) dto.ProfileViewDTO {
	view := dto.ProfileViewDTO{
		User:    user,
		Balance: domain.FormatMoney(user.Balance),
	}
	if s, err := h.authService.Session(ctx); err == nil {
		if exp, ok := pkgauth.ExpiresAt(s.Token); ok {
			view.TokenExpiresAt = &exp
		}
	}
	return view
}
