package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/shopfront/internal/shop/usecase/command"
	"github.com/tair/shopfront/internal/shop/usecase/query"
)

// Signup handles POST /auth/signup
func (h *ShopHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	ctx := r.Context()
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.commands.Signup.Handle(ctx, command.SignupCommand{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusCreated, "Account created", user)
}

// Login handles POST /auth/login and sets the session cookie
func (h *ShopHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	ctx := r.Context()
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	res, err := h.commands.Login.Handle(ctx, command.LoginCommand{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		MaxAge:   int(time.Until(res.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	respondOK(w, http.StatusOK, "Login successful", res)
}

// Logout handles POST /auth/logout
func (h *ShopHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.gate.Logout(ctx, tokenFromRequest(r)); err != nil {
		respondError(ctx, w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	respondOK(w, http.StatusOK, "Logged out", nil)
}

// ForgotPassword handles POST /auth/forgot-password
func (h *ShopHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	ctx := r.Context()
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := h.commands.ForgotPassword.Handle(ctx, command.ForgotPasswordCommand{Email: req.Email}); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "Password reset email sent", nil)
}

// ResetPassword handles POST /auth/reset-password/{token}
func (h *ShopHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	ctx := r.Context()
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	err := h.commands.ResetPassword.Handle(ctx, command.ResetPasswordCommand{
		Token:           mux.Vars(r)["token"],
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "Password updated", nil)
}

// CheckToken handles GET /auth/check-token
func (h *ShopHandler) CheckToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.queries.CheckToken.Handle(ctx, query.CheckTokenQuery{Token: tokenFromRequest(r)})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "", res)
}
