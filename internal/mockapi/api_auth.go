package mockapi

import (
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/dto"
	pkgauth "github.com/GlebRadaev/proxyconsole/pkg/auth"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"go.uber.org/zap"
)

// Login godoc
//
//	@Summary		Sign in
//	@Description	Exchange credentials for an access token and the caller's profile.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.LoginRequestDTO	true	"Credentials"
//	@Success		200		{object}	utils.Envelope{data=dto.LoginResponseDTO}
//	@Router			/auth/login [post]
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		fail(w, r, invalid("%v", err))
		return
	}

	user, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		zap.L().Info("login rejected", zap.String("username", req.Username), zap.Error(err))
		fail(w, r, err)
		return
	}
	token, err := s.jwt.GenerateJWT(user.ID, string(user.Role), s.store.now().Add(s.tokenTTL))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, dto.LoginResponseDTO{Token: token, User: user})
}

// Logout godoc
//
//	@Summary	Sign out
//	@Tags		Auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	utils.Envelope
//	@Failure	401	{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/auth/logout [post]
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if token, found := pkgauth.BearerToken(r); found {
		s.jwt.Revoke(token)
	}
	ok(w, nil)
}

// CurrentUser godoc
//
//	@Summary	Current operator profile
//	@Tags		Auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	utils.Envelope{data=domain.UserProfile}
//	@Failure	401	{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/auth/current-user [get]
func (s *Server) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.Profile(claims(r).UserID)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, user)
}

// UpdateProfile godoc
//
//	@Summary	Update own profile
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.ProfileUpdateDTO	true	"Fields to change"
//	@Success	200		{object}	utils.Envelope{data=domain.UserProfile}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/auth/profile [put]
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileUpdateDTO
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		fail(w, r, invalid("%v", err))
		return
	}
	user, err := s.store.UpdateProfile(claims(r).UserID, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, user)
}

// ChangePassword godoc
//
//	@Summary	Change own password
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.ChangePasswordDTO	true	"Old and new password"
//	@Success	200		{object}	utils.Envelope
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/auth/password [post]
func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordDTO
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		fail(w, r, invalid("%v", err))
		return
	}
	if err := s.store.ChangePassword(claims(r).UserID, req.OldPassword, req.NewPassword); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, nil)
}

