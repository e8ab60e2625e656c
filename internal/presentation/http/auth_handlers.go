package httppresentation

import (
	"net/http"
	"time"

	appauth "github.com/BiharaCD/beverage-OS/internal/application/auth"
	domuser "github.com/BiharaCD/beverage-OS/internal/domain/user"
)

type publicUser struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Approved   *bool      `json:"approved,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
}

func toPublicUser(u *domuser.User) publicUser {
	approved := u.Approved
	return publicUser{ID: u.ID, Name: u.Name, Email: u.Email, Approved: &approved}
}

type userMessageResponse struct {
	Message string     `json:"message"`
	User    publicUser `json:"user"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  publicUser `json:"user"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var cmd appauth.RegisterCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeDomainError(w, r, err)
		return
	}
	u, err := h.svc.Auth.Register(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userMessageResponse{
		Message: "User registered successfully. Please wait for approval from an existing user.",
		User:    toPublicUser(u),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var cmd appauth.LoginCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeDomainError(w, r, err)
		return
	}
	res, err := h.svc.Auth.Login(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token, User: toPublicUser(res.User)})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Auth.Profile(r.Context(), userFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) handlePendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Auth.Pending(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) handleApprovedUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Auth.Approved(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) handleApproveUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Auth.Approve(r.Context(), userFromContext(r.Context()), r.PathValue("userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	body := toPublicUser(u)
	body.ApprovedAt = u.ApprovedAt
	writeJSON(w, http.StatusOK, userMessageResponse{Message: "User approved successfully", User: body})
}

func (h *Handler) handleRejectUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Auth.Reject(r.Context(), userFromContext(r.Context()), r.PathValue("userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	body := toPublicUser(u)
	body.Approved = nil
	writeJSON(w, http.StatusOK, userMessageResponse{Message: "User rejected and removed successfully", User: body})
}
