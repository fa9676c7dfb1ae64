package httptransport

import (
	stdjson "encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	credmodels "walletgate/internal/credential/models"
	"walletgate/internal/transport/http/json"
)

type credentialResponse struct {
	ID      string             `json:"id"`
	Kind    string             `json:"kind"`
	Types   []string           `json:"types,omitempty"`
	Payload stdjson.RawMessage `json:"payload"`
}

func toCredentialResponses(records []credmodels.Record) []credentialResponse {
	out := make([]credentialResponse, 0, len(records))
	for _, record := range records {
		out = append(out, credentialResponse{
			ID:      record.ID,
			Kind:    string(record.Kind),
			Types:   record.Types,
			Payload: record.Payload,
		})
	}
	return out
}

func (h *Handler) handleSaveCredentials(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Credentials []stdjson.RawMessage `json:"credentials"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	records, err := session.SaveCredentials(r.Context(), req.Credentials)
	if err != nil {
		writeError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusCreated, map[string]any{
		"credentials": toCredentialResponses(records),
	})
}

func (h *Handler) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := session.GetCredentials(r.Context(), r.URL.Query().Get("share_request_token"))
	if err != nil {
		writeError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, map[string]any{
		"credentials": toCredentialResponses(records),
	})
}

func (h *Handler) handleDeleteCredential(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := session.DeleteCredential(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteAllCredentials(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := session.DeleteAllCredentials(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
