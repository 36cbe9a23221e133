package httpadapter

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type updateTextRequest struct {
	Text string `json:"text" validate:"required"`
}

func (rt *Router) createEvaluation(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Evaluator == nil {
		writeNotImplemented(w, r)
		return
	}
	upload, closer, ok := rt.readUpload(w, r)
	if !ok {
		return
	}
	defer closer.Close()

	file, err := rt.svc.Evaluator.Evaluate(r.Context(), upload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, file)
}

func (rt *Router) getEvaluation(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Evaluator == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	file, err := rt.svc.Evaluator.GetEvaluation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (rt *Router) listEvaluations(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Evaluator == nil {
		writeNotImplemented(w, r)
		return
	}
	files, err := rt.svc.Evaluator.ListEvaluations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if files == nil {
		files = []domain.EvaluationFile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"evaluations": files})
}

func (rt *Router) updateEquivalency(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Evaluator == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateTextRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	file, err := rt.svc.Evaluator.UpdateEquivalency(r.Context(), id, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (rt *Router) completeEvaluation(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Evaluator == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	file, err := rt.svc.Evaluator.CompleteEvaluation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (rt *Router) exportEvaluation(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Evaluator == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	payload, err := rt.svc.Evaluator.ExportEvaluation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "evaluation-"+id+".xlsx"))
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (rt *Router) verifyDocument(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Verifier == nil {
		writeNotImplemented(w, r)
		return
	}
	upload, closer, ok := rt.readUpload(w, r)
	if !ok {
		return
	}
	defer closer.Close()

	verdict, err := rt.svc.Verifier.Verify(r.Context(), upload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.recordVerification(string(verdict.Verdict), verdict.ConfidenceScore, verdict.Degraded)
	writeJSON(w, http.StatusOK, verdict)
}

func (rt *Router) createTranslation(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Translator == nil {
		writeNotImplemented(w, r)
		return
	}
	upload, closer, ok := rt.readUpload(w, r)
	if !ok {
		return
	}
	defer closer.Close()

	target := strings.TrimSpace(r.FormValue("target_language"))
	if err := rt.validate.Var(target, "required,max=64"); err != nil {
		writeBadRequest(w, r, "multipart field 'target_language' is required")
		return
	}

	file, err := rt.svc.Translator.Translate(r.Context(), upload, target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, file)
}

func (rt *Router) getTranslation(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Translator == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	file, err := rt.svc.Translator.GetTranslation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (rt *Router) listTranslations(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Translator == nil {
		writeNotImplemented(w, r)
		return
	}
	files, err := rt.svc.Translator.ListTranslations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if files == nil {
		files = []domain.TranslationFile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"translations": files})
}

func (rt *Router) updateTranslation(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Translator == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateTextRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	file, err := rt.svc.Translator.UpdateTranslation(r.Context(), id, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (rt *Router) completeTranslation(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Translator == nil {
		writeNotImplemented(w, r)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	file, err := rt.svc.Translator.CompleteTranslation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}
