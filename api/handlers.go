/*
handlers.go - HTTP API handlers for the Kintaraa platform

PURPOSE:

	Exposes the token ledger, reward dispatcher and domain collaborators
	via REST. Handles HTTP request/response, JSON serialization, and
	delegates all business logic to tokens/ and platform/.

ENDPOINTS:

	Tokens:
	  POST   /api/tokens/initialize              Grant the initial balance
	  POST   /api/tokens/earn                    Credit the caller
	  POST   /api/tokens/spend                   Debit the caller
	  GET    /api/tokens/{principal}/balance     Balance snapshot
	  GET    /api/tokens/{principal}/transactions Transaction history
	  GET    /api/tokens/{principal}/summary     Spending summary

	Rewards:
	  POST   /api/rewards/daily | /report | /post Fixed-amount credits

	Domain:
	  POST   /api/register                       Register + initial grant
	  POST   /api/reports                        Submit incident report
	  POST   /api/requests                       Submit service request
	  POST   /api/appointments                   Schedule appointment
	  PUT    .../{id}/status                     Unguarded status overwrite
	  GET    /api/users/{principal}/...          Per-user listings

	Admin:
	  POST   /api/admin/providers                Register provider (allow-list)

ERROR HANDLING:

	Ledger and domain errors map to HTTP status via statusForError:
	- 400: Validation errors, invalid amounts
	- 402: Insufficient tokens
	- 403: Caller not on the admin allow-list
	- 404: Unknown identity or entity
	- 409: Balance already initialized
	- 500: Internal errors

PARTIAL FAILURE:

	Committing endpoints (report submission, registration) always return
	2xx once the primary commit succeeds. The reward outcome rides along
	in the response body, credited or not.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Kintaraa/kentaraa/platform"
	"github.com/Kintaraa/kentaraa/tokens"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger   *tokens.Ledger
	Rewards  *tokens.Dispatcher
	Registry *platform.Registry
	Log      zerolog.Logger
}

// NewHandler creates a handler over the given components.
func NewHandler(ledger *tokens.Ledger, rewards *tokens.Dispatcher, registry *platform.Registry, log zerolog.Logger) *Handler {
	return &Handler{
		Ledger:   ledger,
		Rewards:  rewards,
		Registry: registry,
		Log:      log.With().Str("component", "api").Logger(),
	}
}

// =============================================================================
// TOKEN HANDLERS
// =============================================================================

// InitializeTokens grants the caller their initial balance.
func (h *Handler) InitializeTokens(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())

	granted, err := h.Ledger.Initialize(r.Context(), caller)
	observeOp("initialize", err)
	if err != nil {
		writeError(w, statusForError(err), "Failed to initialize tokens", err)
		return
	}
	tokensGranted.Add(float64(granted))
	writeJSON(w, http.StatusCreated, InitializeResponse{Granted: granted})
}

// EarnTokens credits the caller.
func (h *Handler) EarnTokens(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())

	var req EarnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	balance, err := h.Ledger.Earn(r.Context(), caller, req.Amount, req.Description)
	observeOp("earn", err)
	if err != nil {
		writeError(w, statusForError(err), "Failed to earn tokens", err)
		return
	}
	tokensGranted.Add(float64(req.Amount))
	writeJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}

// SpendTokens debits the caller.
func (h *Handler) SpendTokens(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())

	var req SpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	balance, err := h.Ledger.Spend(r.Context(), caller, req.Amount, req.Description, req.ServiceType)
	observeOp("spend", err)
	if err != nil {
		writeError(w, statusForError(err), "Failed to spend tokens", err)
		return
	}
	tokensSpent.Add(float64(req.Amount))
	writeJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}

// GetTokenBalance returns the balance snapshot for a principal.
func (h *Handler) GetTokenBalance(w http.ResponseWriter, r *http.Request) {
	user := tokens.Identity(chi.URLParam(r, "principal"))

	balance, err := h.Ledger.GetBalance(r.Context(), user)
	if err != nil {
		writeError(w, statusForError(err), "Failed to get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(user, balance))
}

// GetTransactionHistory returns all transactions for a principal,
// oldest first. An unknown principal yields an empty list.
func (h *Handler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	user := tokens.Identity(chi.URLParam(r, "principal"))

	txs := h.Ledger.History(r.Context(), user)
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSpendingSummary returns the per-category spending breakdown.
func (h *Handler) GetSpendingSummary(w http.ResponseWriter, r *http.Request) {
	user := tokens.Identity(chi.URLParam(r, "principal"))
	writeJSON(w, http.StatusOK, h.Ledger.Summarize(r.Context(), user))
}

// =============================================================================
// REWARD HANDLERS
// =============================================================================

func (h *Handler) rewardHandler(kind tokens.RewardKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerIdentity(r.Context())
		outcome := h.Rewards.Dispatch(r.Context(), caller, kind)
		if !outcome.Credited {
			rewardFailures.Inc()
		}
		writeJSON(w, http.StatusOK, outcome)
	}
}

// RewardDailyEngagement credits the daily engagement reward.
func (h *Handler) RewardDailyEngagement(w http.ResponseWriter, r *http.Request) {
	h.rewardHandler(tokens.RewardDailyEngagement)(w, r)
}

// RewardReportSubmission credits the report submission reward.
func (h *Handler) RewardReportSubmission(w http.ResponseWriter, r *http.Request) {
	h.rewardHandler(tokens.RewardReportSubmission)(w, r)
}

// RewardCommunityPost credits the community post reward.
func (h *Handler) RewardCommunityPost(w http.ResponseWriter, r *http.Request) {
	h.rewardHandler(tokens.RewardCommunityPost)(w, r)
}

// =============================================================================
// REGISTRATION
// =============================================================================

// Register initializes the caller's balance via the dispatcher. The
// registration itself always succeeds; the grant outcome rides along.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())
	outcome := h.Registry.RegisterUser(r.Context(), caller)
	if !outcome.Credited {
		rewardFailures.Inc()
	}
	writeJSON(w, http.StatusOK, outcome)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// SubmitReport commits a report and credits the submission reward.
// Always 201 once the report is committed, even if the reward failed.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())

	var req SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Registry.SubmitReport(r.Context(), caller, req.Description)
	if err != nil {
		writeError(w, statusForError(err), "Failed to submit report", err)
		return
	}
	if !result.Reward.Credited {
		rewardFailures.Inc()
	}
	writeJSON(w, http.StatusCreated, SubmitResultDTO{ID: result.ID, Reward: result.Reward})
}

// GetReport returns a single report.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	report, err := h.Registry.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, statusForError(err), "Failed to get report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// UserReports lists reports submitted by a principal.
func (h *Handler) UserReports(w http.ResponseWriter, r *http.Request) {
	user := tokens.Identity(chi.URLParam(r, "principal"))

	reports := h.Registry.UserReports(r.Context(), user)
	dtos := make([]ReportDTO, len(reports))
	for i, rep := range reports {
		dtos[i] = toReportDTO(rep)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateReportStatus overwrites a report's status.
func (h *Handler) UpdateReportStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Registry.UpdateReportStatus(r.Context(), id, platform.ReportStatus(req.Status)); err != nil {
		writeError(w, statusForError(err), "Failed to update report status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SERVICE REQUEST HANDLERS
// =============================================================================

// SubmitServiceRequest commits a service request.
func (h *Handler) SubmitServiceRequest(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())

	var req SubmitServiceRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id, err := h.Registry.SubmitServiceRequest(r.Context(), caller,
		platform.ServiceType(req.ServiceType), req.Description, platform.Priority(req.Priority))
	if err != nil {
		writeError(w, statusForError(err), "Failed to submit service request", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

// GetServiceRequest returns a single service request.
func (h *Handler) GetServiceRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	req, err := h.Registry.GetServiceRequest(r.Context(), id)
	if err != nil {
		writeError(w, statusForError(err), "Failed to get service request", err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceRequestDTO(req))
}

// UserServiceRequests lists service requests by a principal.
func (h *Handler) UserServiceRequests(w http.ResponseWriter, r *http.Request) {
	user := tokens.Identity(chi.URLParam(r, "principal"))

	reqs := h.Registry.UserServiceRequests(r.Context(), user)
	dtos := make([]ServiceRequestDTO, len(reqs))
	for i, req := range reqs {
		dtos[i] = toServiceRequestDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateRequestStatus overwrites a service request's status.
func (h *Handler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Registry.UpdateRequestStatus(r.Context(), id, platform.RequestStatus(req.Status)); err != nil {
		writeError(w, statusForError(err), "Failed to update request status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// APPOINTMENT HANDLERS
// =============================================================================

// ScheduleAppointment commits an appointment.
func (h *Handler) ScheduleAppointment(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())

	var req ScheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	datetime, err := time.Parse(time.RFC3339, req.Datetime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid datetime format (use RFC 3339)", err)
		return
	}

	id, err := h.Registry.ScheduleAppointment(r.Context(), caller,
		platform.ServiceType(req.ServiceType), datetime, req.Notes)
	if err != nil {
		writeError(w, statusForError(err), "Failed to schedule appointment", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

// GetAppointment returns a single appointment.
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	appt, err := h.Registry.GetAppointment(r.Context(), id)
	if err != nil {
		writeError(w, statusForError(err), "Failed to get appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentDTO(appt))
}

// UserAppointments lists appointments for a principal.
func (h *Handler) UserAppointments(w http.ResponseWriter, r *http.Request) {
	user := tokens.Identity(chi.URLParam(r, "principal"))

	appts := h.Registry.UserAppointments(r.Context(), user)
	dtos := make([]AppointmentDTO, len(appts))
	for i, appt := range appts {
		dtos[i] = toAppointmentDTO(appt)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateAppointmentStatus overwrites an appointment's status.
func (h *Handler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Registry.UpdateAppointmentStatus(r.Context(), id, platform.AppointmentStatus(req.Status)); err != nil {
		writeError(w, statusForError(err), "Failed to update appointment status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROVIDER HANDLERS
// =============================================================================

// RegisterProvider records a provider. Admin allow-list only.
func (h *Handler) RegisterProvider(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())

	var req RegisterProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id, err := h.Registry.RegisterProvider(r.Context(), caller,
		tokens.Identity(req.Principal), req.Name, platform.ServiceType(req.ServiceType))
	if err != nil {
		writeError(w, statusForError(err), "Failed to register provider", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

// ListProviders lists all registered providers.
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers := h.Registry.Providers(r.Context())
	dtos := make([]ProviderDTO, len(providers))
	for i, p := range providers {
		dtos[i] = toProviderDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return 0, false
	}
	return id, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, tokens.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tokens.ErrAlreadyInitialized):
		return http.StatusConflict
	case errors.Is(err, tokens.ErrInsufficientTokens):
		return http.StatusPaymentRequired
	case errors.Is(err, tokens.ErrInvalidAmount), errors.Is(err, platform.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, platform.ErrNotAuthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func strPtr(s string) *string {
	return &s
}
