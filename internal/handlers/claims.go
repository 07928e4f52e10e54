package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/authctx"
	"squash-courts/backend/internal/httpjson"
)

// ClaimsSetter is satisfied by *auth.Client.
type ClaimsSetter interface {
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
}

type Claims struct {
	auth ClaimsSetter
}

func NewClaims(auth ClaimsSetter) *Claims {
	return &Claims{auth: auth}
}

// Me reports who the caller is and whether the dashboard should open.
func (h *Claims) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := authctx.FromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"uid":         u.UID,
		"email":       u.Email,
		"phoneNumber": u.PhoneNumber,
		"admin":       authctx.IsAdmin(u.Claims),
	})
}

type setAdminReq struct {
	UID   string `json:"uid" validate:"required,max=128"`
	Admin *bool  `json:"admin" validate:"required"`
}

// SetAdmin grants or revokes the admin claim. The change shows up in the
// target's next ID token.
func (h *Claims) SetAdmin(w http.ResponseWriter, r *http.Request) {
	var req setAdminReq
	if err := httpjson.Read(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	caller, _ := authctx.FromContext(r.Context())
	if caller != nil && caller.UID == req.UID && !*req.Admin {
		httpjson.Error(w, http.StatusBadRequest, "cannot revoke your own admin access")
		return
	}

	if err := h.auth.SetCustomUserClaims(r.Context(), req.UID, authctx.AdminClaims(*req.Admin)); err != nil {
		log.Error().Err(err).Str("uid", req.UID).Msg("failed to set custom claims")
		httpjson.Error(w, http.StatusInternalServerError, "failed to set claims")
		return
	}

	log.Info().Str("uid", req.UID).Bool("admin", *req.Admin).Msg("admin claim updated")
	httpjson.Write(w, http.StatusOK, map[string]any{"ok": true, "uid": req.UID, "admin": *req.Admin})
}
