package httpadapter

import (
	"net/http"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

type expertLetterRequest struct {
	CaseID   string                      `json:"case_id" validate:"omitempty,max=128"`
	Evidence domain.ExpertLetterEvidence `json:"evidence"`
}

type petitionLetterRequest struct {
	CaseID   string                        `json:"case_id" validate:"omitempty,max=128"`
	Evidence domain.PetitionLetterEvidence `json:"evidence"`
}

type refineLetterRequest struct {
	Instructions string `json:"instructions" validate:"required,max=4000"`
}

func (rt *Router) draftExpertLetter(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Letters == nil {
		writeNotImplemented(w, r)
		return
	}
	var req expertLetterRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	letter, err := rt.svc.Letters.DraftExpertLetter(r.Context(), req.CaseID, req.Evidence)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.recordLetter(string(letter.Kind), "drafted")
	writeJSON(w, http.StatusCreated, letter)
}

func (rt *Router) draftPetitionLetter(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Letters == nil {
		writeNotImplemented(w, r)
		return
	}
	var req petitionLetterRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	letter, err := rt.svc.Letters.DraftPetitionLetter(r.Context(), req.CaseID, req.Evidence)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.recordLetter(string(letter.Kind), "drafted")
	writeJSON(w, http.StatusCreated, letter)
}

func (rt *Router) getLetter(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Letters == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	letter, err := rt.svc.Letters.GetLetter(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, letter)
}

func (rt *Router) refineLetter(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Letters == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req refineLetterRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	letter, err := rt.svc.Letters.RefineLetter(r.Context(), id, req.Instructions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.recordLetter(string(letter.Kind), "refined")
	writeJSON(w, http.StatusOK, letter)
}

func (rt *Router) listSamples(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Letters == nil {
		writeNotImplemented(w, r)
		return
	}
	query := r.URL.Query()
	visaType := strings.TrimSpace(query.Get("visa_type"))
	samples := rt.svc.Letters.Samples(visaType, splitTags(query.Get("tags")))
	if samples == nil {
		samples = []domain.SampleLetter{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"visa_type": visaType, "samples": samples})
}
