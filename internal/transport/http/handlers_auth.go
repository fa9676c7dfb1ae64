package httptransport

import (
	"net/http"

	authmodels "walletgate/internal/auth/models"
	"walletgate/internal/transport/http/json"
	"walletgate/internal/wallet"
)

type messagePayload struct {
	Message string `json:"message"`
	Subject string `json:"subject"`
}

type signUpPayload struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Message  messagePayload `json:"message"`
}

type confirmPayload struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

type sessionResponse struct {
	AccessToken   string `json:"access_token"`
	EncryptedSeed string `json:"encrypted_seed,omitempty"`
	DID           string `json:"did"`
	AccountID     string `json:"account_id"`
}

func toSessionResponse(s *wallet.Session) sessionResponse {
	return sessionResponse{
		AccessToken:   s.AccessToken(),
		EncryptedSeed: s.EncryptedSeed(),
		DID:           s.DID(),
		AccountID:     s.AccountID(),
	}
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpPayload
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	template := authmodels.MessageTemplate{Message: req.Message.Message, Subject: req.Message.Subject}
	token, err := h.wallet.SignUp(r.Context(), req.Username, req.Password, template, r.UserAgent())
	if err != nil {
		writeError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusAccepted, map[string]string{"token": token})
}

func (h *Handler) handleConfirmSignUp(w http.ResponseWriter, r *http.Request) {
	var req confirmPayload
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.wallet.ConfirmSignUp(r.Context(), req.Token, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signUpPayload
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	template := authmodels.MessageTemplate{Message: req.Message.Message, Subject: req.Message.Subject}
	token, err := h.wallet.SignIn(r.Context(), req.Username, req.Password, template, r.UserAgent())
	if err != nil {
		writeError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusAccepted, map[string]string{"token": token})
}

func (h *Handler) handleConfirmSignIn(w http.ResponseWriter, r *http.Request) {
	var req confirmPayload
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.wallet.ConfirmSignIn(r.Context(), req.Token, req.Code, r.UserAgent())
	if err != nil {
		writeError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := session.SignOut(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStoreSeed(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		EncryptedSeed string `json:"encrypted_seed"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := session.StoreEncryptedSeed(r.Context(), req.EncryptedSeed); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionFromRequest resumes a wallet session from the bearer token.
func (h *Handler) sessionFromRequest(r *http.Request) (*wallet.Session, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	return h.wallet.ResumeSession(token), nil
}
