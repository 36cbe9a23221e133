package httpadapter

import (
	"net/http"
)

type createCaseRequest struct {
	ApplicantName string `json:"applicant_name" validate:"required,max=256"`
	VisaType      string `json:"visa_type" validate:"required,max=32"`
}

func (rt *Router) createCase(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Cases == nil {
		writeNotImplemented(w, r)
		return
	}
	var req createCaseRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	c, err := rt.svc.Cases.CreateCase(r.Context(), req.ApplicantName, req.VisaType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (rt *Router) getCase(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Cases == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := rt.svc.Cases.GetCase(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (rt *Router) listCaseDocuments(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Cases == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	docs, err := rt.svc.Cases.ListDocuments(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"case_id": id, "documents": docs})
}

func (rt *Router) listCaseLetters(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Cases == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	letters, err := rt.svc.Cases.ListLetters(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"case_id": id, "letters": letters})
}

func (rt *Router) reprocessCase(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Processor == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := rt.svc.Processor.ReprocessCase(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Ingestor == nil {
		writeNotImplemented(w, r)
		return
	}
	upload, closer, ok := rt.readUpload(w, r)
	if !ok {
		return
	}
	defer closer.Close()

	doc, err := rt.svc.Ingestor.Upload(r.Context(), upload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Documents == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := rt.svc.Documents.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) reprocessDocument(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Processor == nil || rt.svc.Documents == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := rt.svc.Processor.ProcessByID(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := rt.svc.Documents.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
