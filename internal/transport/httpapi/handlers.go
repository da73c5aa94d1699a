// Package httpapi exposes the engine's C1-C14 operation surface over HTTP.
// Handlers decode a request body, call exactly one internal/app method, and
// translate the result or error back through httputil's JSON envelope —
// no business logic lives here, matching the thin-transport posture the
// spec's non-goals carve out for HTTP routing.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/novacredit/engine/internal/app"
	"github.com/novacredit/engine/internal/domain/aa"
	"github.com/novacredit/engine/internal/domain/consent"
	"github.com/novacredit/engine/internal/domain/gst"
	"github.com/novacredit/engine/internal/domain/quiz"
	"github.com/novacredit/engine/internal/domain/scoring"
	platerrors "github.com/novacredit/engine/internal/platform/errors"
	"github.com/novacredit/engine/internal/platform/httputil"
)

// Handler groups the dependencies every route needs.
type Handler struct {
	app *app.Application
}

// NewHandler builds the HTTP handler set over application.
func NewHandler(application *app.Application) *Handler {
	return &Handler{app: application}
}

// Routes mounts every operation under its §6.4 path.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/aadhaar/initiate", h.aadhaarInitiate)
	r.Post("/aadhaar/verify", h.aadhaarVerify)

	r.Post("/consent", h.consentCreate)
	r.Get("/consent/{consentID}", h.consentGet)
	r.Get("/consent", h.consentListByUser)
	r.Post("/consent/{consentID}/revoke", h.consentRevoke)

	r.Post("/fi/request", h.fiRequest)
	r.Post("/fi/fetch", h.fiFetch)

	r.Post("/upi/analyse", h.upiAnalyse)
	r.Post("/transactions/analyse", h.transactionsAnalyse)
	r.Post("/gst/fetch", h.gstFetch)
	r.Post("/utility/fetch", h.utilityFetch)

	r.Get("/behaviour/questions", h.quizQuestions)
	r.Post("/behaviour/submit", h.quizSubmit)

	r.Post("/social/connect", h.socialConnect)

	r.Post("/score", h.scoreApplication)

	return r
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer io.Copy(io.Discard, r.Body) //nolint:errcheck
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return platerrors.Validation("malformed request body", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

type aadhaarInitiateRequest struct {
	AadhaarID string `json:"aadhaar_id"`
	Phone     string `json:"phone"`
}

func (h *Handler) aadhaarInitiate(w http.ResponseWriter, r *http.Request) {
	var req aadhaarInitiateRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	result, err := h.app.Aadhaar.Initiate(r.Context(), req.AadhaarID, req.Phone)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type aadhaarVerifyRequest struct {
	AadhaarID string `json:"aadhaar_id"`
	OTP       string `json:"otp"`
	TxnID     string `json:"txn_id"`
}

func (h *Handler) aadhaarVerify(w http.ResponseWriter, r *http.Request) {
	var req aadhaarVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	result, err := h.app.Aadhaar.Verify(r.Context(), req.AadhaarID, req.OTP, req.TxnID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) consentCreate(w http.ResponseWriter, r *http.Request) {
	var req consent.CreateInput
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	artefact, err := h.app.Consent.Create(r.Context(), req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, artefact)
}

func (h *Handler) consentGet(w http.ResponseWriter, r *http.Request) {
	consentID := chi.URLParam(r, "consentID")
	artefact, err := h.app.Consent.Get(r.Context(), consentID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, artefact)
}

func (h *Handler) consentListByUser(w http.ResponseWriter, r *http.Request) {
	userReferenceID := r.URL.Query().Get("user_reference_id")
	if userReferenceID == "" {
		httputil.WriteServiceError(w, r, platerrors.Validation("user_reference_id is required", nil))
		return
	}
	artefacts, err := h.app.Consent.ListByUser(r.Context(), userReferenceID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, artefacts)
}

func (h *Handler) consentRevoke(w http.ResponseWriter, r *http.Request) {
	consentID := chi.URLParam(r, "consentID")
	artefact, err := h.app.Consent.Revoke(r.Context(), consentID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, artefact)
}

func (h *Handler) fiRequest(w http.ResponseWriter, r *http.Request) {
	var req aa.RequestInput
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	result, err := h.app.AA.RequestFI(r.Context(), req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type fiFetchRequest struct {
	SessionID      string   `json:"session_id"`
	FIPID          string   `json:"fip_id"`
	LinkRefNumbers []string `json:"link_ref_numbers"`
}

func (h *Handler) fiFetch(w http.ResponseWriter, r *http.Request) {
	var req fiFetchRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	result, analysis, err := h.app.FIFetch(r.Context(), req.SessionID, req.FIPID, req.LinkRefNumbers)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"txn_id":     result.TxnID,
		"session_id": result.SessionID,
		"analysis":   analysis,
		"degraded":   result.Degraded,
	})
}

type transactionsRequest struct {
	Raw json.RawMessage `json:"raw"`
}

func (h *Handler) upiAnalyse(w http.ResponseWriter, r *http.Request) {
	var req transactionsRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	analytics, err := h.app.UPIAnalyse(req.Raw)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, analytics)
}

func (h *Handler) transactionsAnalyse(w http.ResponseWriter, r *http.Request) {
	var req transactionsRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	analytics, err := h.app.TransactionsAnalyse(req.Raw)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, analytics)
}

type gstFetchRequest struct {
	GSTIN       string           `json:"gstin"`
	ReturnTypes []gst.ReturnType `json:"return_types"`
}

func (h *Handler) gstFetch(w http.ResponseWriter, r *http.Request) {
	var req gstFetchRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	if !gst.GSTINPattern.MatchString(req.GSTIN) {
		httputil.WriteServiceError(w, r, platerrors.Validation("gstin is not well-formed", nil))
		return
	}
	report, degraded, err := h.app.GSTFetch(r.Context(), req.GSTIN, req.ReturnTypes)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"report": report, "degraded": degraded})
}

type utilityFetchRequest struct {
	Mobile     string   `json:"mobile"`
	Categories []string `json:"categories"`
}

func (h *Handler) utilityFetch(w http.ResponseWriter, r *http.Request) {
	var req utilityFetchRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	report, degraded, err := h.app.UtilityFetch(r.Context(), req.Mobile, req.Categories)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"report": report, "degraded": degraded})
}

func (h *Handler) quizQuestions(w http.ResponseWriter, r *http.Request) {
	questions, _ := h.app.QuizQuestions()
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

type quizSubmitRequest struct {
	Responses []quiz.Response `json:"responses"`
}

func (h *Handler) quizSubmit(w http.ResponseWriter, r *http.Request) {
	var req quizSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	scored, err := h.app.QuizSubmit(req.Responses)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, scored)
}

type socialConnectRequest struct {
	ProfileURLs []string `json:"profile_urls"`
}

func (h *Handler) socialConnect(w http.ResponseWriter, r *http.Request) {
	var req socialConnectRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	result, record, err := h.app.SocialConnect(r.Context(), req.ProfileURLs)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"result": result, "record": record})
}

func (h *Handler) scoreApplication(w http.ResponseWriter, r *http.Request) {
	var req scoring.Input
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	result, err := h.app.ScoreApplication(req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
