/*
handlers_test.go - HTTP-level tests for the API surface

Tests drive the real router through httptest, with an in-memory ledger
behind the handlers. Coverage focuses on status-code mapping and the
partial-success shape of committing endpoints.
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kintaraa/kentaraa/platform"
	"github.com/Kintaraa/kentaraa/tokens"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ledger := tokens.NewLedger(500, nil)
	dispatcher := tokens.NewDispatcher(ledger, tokens.DefaultAmounts(), zerolog.Nop())
	registry := platform.NewRegistry(dispatcher, []tokens.Identity{"admin-1"})
	h := NewHandler(ledger, dispatcher, registry, zerolog.Nop())
	return NewRouter(h, zerolog.Nop(), []string{"*"})
}

func doJSON(t *testing.T, router http.Handler, method, path, principal string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if principal != "" {
		req.Header.Set(PrincipalHeader, principal)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// =============================================================================
// TOKEN ENDPOINTS
// =============================================================================

func TestInitializeTokens_StatusCodes(t *testing.T) {
	router := newTestRouter(t)

	// Missing principal
	rec := doJSON(t, router, http.MethodPost, "/api/tokens/initialize", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// First initialize
	rec = doJSON(t, router, http.MethodPost, "/api/tokens/initialize", "alice", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[InitializeResponse](t, rec)
	assert.Equal(t, uint64(500), resp.Granted)

	// Second initialize conflicts
	rec = doJSON(t, router, http.MethodPost, "/api/tokens/initialize", "alice", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEarnSpend_StatusCodes(t *testing.T) {
	router := newTestRouter(t)

	// Earn for unknown identity
	rec := doJSON(t, router, http.MethodPost, "/api/tokens/earn", "ghost",
		EarnRequest{Amount: 10, Description: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	doJSON(t, router, http.MethodPost, "/api/tokens/initialize", "alice", nil)

	// Zero amount
	rec = doJSON(t, router, http.MethodPost, "/api/tokens/earn", "alice",
		EarnRequest{Amount: 0, Description: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Overspend
	rec = doJSON(t, router, http.MethodPost, "/api/tokens/spend", "alice",
		SpendRequest{Amount: 600, Description: "x", ServiceType: "Legal"})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	// Valid spend
	rec = doJSON(t, router, http.MethodPost, "/api/tokens/spend", "alice",
		SpendRequest{Amount: 100, Description: "Legal consultation", ServiceType: "Legal"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[BalanceResponse](t, rec)
	assert.Equal(t, uint64(400), resp.Balance)
}

func TestGetBalanceAndHistory(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/tokens/alice/balance", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	doJSON(t, router, http.MethodPost, "/api/tokens/initialize", "alice", nil)
	doJSON(t, router, http.MethodPost, "/api/tokens/spend", "alice",
		SpendRequest{Amount: 50, Description: "Counseling session", ServiceType: "Counseling"})

	rec = doJSON(t, router, http.MethodGet, "/api/tokens/alice/balance", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	balance := decode[BalanceDTO](t, rec)
	assert.Equal(t, uint64(450), balance.Balance)
	assert.Equal(t, uint64(500), balance.TotalEarned)
	assert.Equal(t, uint64(50), balance.TotalSpent)

	rec = doJSON(t, router, http.MethodGet, "/api/tokens/alice/transactions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	txs := decode[[]TransactionDTO](t, rec)
	require.Len(t, txs, 2)
	assert.Equal(t, int64(500), txs[0].Amount)
	assert.Nil(t, txs[0].ServiceType)
	assert.Equal(t, int64(-50), txs[1].Amount)
	require.NotNil(t, txs[1].ServiceType)
	assert.Equal(t, "Counseling", *txs[1].ServiceType)

	// Unknown identity: empty list, not an error
	rec = doJSON(t, router, http.MethodGet, "/api/tokens/nobody/transactions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]TransactionDTO](t, rec))
}

// =============================================================================
// REWARD AND REGISTRATION ENDPOINTS
// =============================================================================

func TestRewardEndpoints(t *testing.T) {
	router := newTestRouter(t)

	// Register grants the initial balance.
	rec := doJSON(t, router, http.MethodPost, "/api/register", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	outcome := decode[tokens.Outcome](t, rec)
	assert.True(t, outcome.Credited)
	assert.Equal(t, uint64(500), outcome.Balance)

	rec = doJSON(t, router, http.MethodPost, "/api/rewards/daily", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	outcome = decode[tokens.Outcome](t, rec)
	assert.True(t, outcome.Credited)
	assert.Equal(t, uint64(510), outcome.Balance)

	// Rewards for an unregistered caller degrade, they do not error.
	rec = doJSON(t, router, http.MethodPost, "/api/rewards/post", "ghost", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	outcome = decode[tokens.Outcome](t, rec)
	assert.False(t, outcome.Credited)
	assert.Contains(t, outcome.Note, "reward not credited")
}

// =============================================================================
// DOMAIN ENDPOINTS
// =============================================================================

func TestSubmitReport_EndToEnd(t *testing.T) {
	router := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/register", "alice", nil)

	// Blank description rejected before commit.
	rec := doJSON(t, router, http.MethodPost, "/api/reports", "alice",
		SubmitReportRequest{Description: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/reports", "alice",
		SubmitReportRequest{Description: "pothole on main st"})
	require.Equal(t, http.StatusCreated, rec.Code)
	result := decode[SubmitResultDTO](t, rec)
	assert.True(t, result.Reward.Credited)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reports/%d", result.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[ReportDTO](t, rec)
	assert.Equal(t, "pothole on main st", report.Description)
	assert.Equal(t, "Submitted", report.Status)

	rec = doJSON(t, router, http.MethodGet, "/api/users/alice/reports", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ReportDTO](t, rec), 1)
}

func TestSubmitReport_UnregisteredCaller_PartialSuccess(t *testing.T) {
	// The report commits and returns 201 even though the reward fails.
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/reports", "ghost",
		SubmitReportRequest{Description: "fallen tree"})
	require.Equal(t, http.StatusCreated, rec.Code)
	result := decode[SubmitResultDTO](t, rec)
	assert.False(t, result.Reward.Credited)
	assert.NotEmpty(t, result.Reward.Note)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reports/%d", result.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "the report must exist despite the failed reward")
}

func TestServiceRequestLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/requests", "alice",
		SubmitServiceRequestRequest{ServiceType: "Plumbing", Description: "leak", Priority: "High"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/requests", "alice",
		SubmitServiceRequestRequest{ServiceType: "Medical", Description: "checkup", Priority: "Low"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]uint64](t, rec)
	id := created["id"]

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/requests/%d/status", id), "",
		UpdateStatusRequest{Status: "Completed"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/requests/%d", id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	req := decode[ServiceRequestDTO](t, rec)
	assert.Equal(t, "Completed", req.Status)

	rec = doJSON(t, router, http.MethodPut, "/api/requests/999/status", "",
		UpdateStatusRequest{Status: "Completed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAppointmentLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/appointments", "alice",
		ScheduleAppointmentRequest{ServiceType: "Counseling", Datetime: "not-a-time"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/appointments", "alice",
		ScheduleAppointmentRequest{ServiceType: "Counseling", Datetime: "2026-09-14T10:30:00Z", Notes: "first"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]uint64](t, rec)

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/appointments/%d/status", created["id"]), "",
		UpdateStatusRequest{Status: "Confirmed"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/users/alice/appointments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	appts := decode[[]AppointmentDTO](t, rec)
	require.Len(t, appts, 1)
	assert.Equal(t, "Confirmed", appts[0].Status)
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

func TestRegisterProvider_AllowList(t *testing.T) {
	router := newTestRouter(t)

	body := RegisterProviderRequest{Principal: "prov-1", Name: "City Clinic", ServiceType: "Medical"}

	rec := doJSON(t, router, http.MethodPost, "/api/admin/providers", "mallory", body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/admin/providers", "admin-1", body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/providers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	providers := decode[[]ProviderDTO](t, rec)
	require.Len(t, providers, 1)
	assert.Equal(t, "City Clinic", providers[0].Name)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
