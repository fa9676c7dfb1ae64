// Package models defines the credential record shape stored by the wallet.
package models

import (
	"encoding/json"

	"github.com/google/uuid"

	dErrors "walletgate/pkg/domain-errors"
)

// Kind distinguishes the two credential shapes the wallet accepts. The
// variant is resolved once at ingestion and never re-derived from the
// payload afterwards.
type Kind string

const (
	// KindW3C marks a W3C Verifiable Credential: a non-empty `type`
	// attribute and a top-level `id`.
	KindW3C Kind = "w3c"

	// KindLegacy marks the older envelope format where the identifier
	// lives under `data.id` and no `type` list exists.
	KindLegacy Kind = "legacy"
)

// Record is a stored credential. Payload is the document exactly as the
// caller supplied it; ID and Types are extracted (or assigned) during
// normalization so lookups and share-token filtering never reparse JSON.
type Record struct {
	ID      string          `json:"id"`
	Kind    Kind            `json:"kind"`
	Types   []string        `json:"types,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// w3cShape covers the fields normalization needs from a W3C credential.
type w3cShape struct {
	ID    string   `json:"id"`
	Types []string `json:"type"`
}

// legacyShape covers the fields normalization needs from a legacy envelope.
type legacyShape struct {
	ID   string `json:"id"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Normalize resolves a raw credential document into a Record. Documents
// with a non-empty `type` attribute are treated as W3C credentials keyed
// by their top-level `id`; anything else is a legacy envelope keyed by
// `data.id`. A record with no usable identifier gets a fresh UUID so it
// can still be listed and deleted individually.
func Normalize(raw json.RawMessage) (Record, error) {
	if len(raw) == 0 {
		return Record{}, dErrors.New(dErrors.CodeInvalidInput, "credential payload is empty")
	}

	var w3c w3cShape
	if err := json.Unmarshal(raw, &w3c); err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeValidation, "credential payload is not valid JSON")
	}

	if len(w3c.Types) > 0 {
		id := w3c.ID
		if id == "" {
			id = uuid.NewString()
		}
		return Record{ID: id, Kind: KindW3C, Types: w3c.Types, Payload: raw}, nil
	}

	var legacy legacyShape
	// Already known to be valid JSON, so this cannot fail.
	_ = json.Unmarshal(raw, &legacy)

	id := legacy.Data.ID
	if id == "" {
		id = legacy.ID
	}
	if id == "" {
		id = uuid.NewString()
	}
	return Record{ID: id, Kind: KindLegacy, Payload: raw}, nil
}

// NormalizeAll resolves a batch, preserving caller order. It fails on the
// first unusable document so a bulk save never partially normalizes.
func NormalizeAll(raws []json.RawMessage) ([]Record, error) {
	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		record, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// HasType reports whether the record carries the given W3C type. Legacy
// records have no type list and never match.
func (r Record) HasType(credentialType string) bool {
	for _, t := range r.Types {
		if t == credentialType {
			return true
		}
	}
	return false
}
