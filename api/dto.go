/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:

	JSON structures for API communication. These decouple the internal
	domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:

	Validation is done in handlers and domain code, not in DTOs. DTOs are
	pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/Kintaraa/kentaraa/platform"
	"github.com/Kintaraa/kentaraa/tokens"
)

// =============================================================================
// TOKEN TYPES
// =============================================================================

type BalanceDTO struct {
	Principal   string `json:"principal"`
	Balance     uint64 `json:"balance"`
	TotalEarned uint64 `json:"total_earned"`
	TotalSpent  uint64 `json:"total_spent"`
	LastUpdated string `json:"last_updated"`
}

func toBalanceDTO(user tokens.Identity, b tokens.Balance) BalanceDTO {
	return BalanceDTO{
		Principal:   string(user),
		Balance:     b.Balance,
		TotalEarned: b.TotalEarned,
		TotalSpent:  b.TotalSpent,
		LastUpdated: b.LastUpdated.Format(time.RFC3339Nano),
	}
}

type TransactionDTO struct {
	ID          uint64  `json:"id"`
	Principal   string  `json:"principal"`
	Amount      int64   `json:"amount"`
	Description string  `json:"description"`
	Timestamp   string  `json:"timestamp"`
	ServiceType *string `json:"service_type,omitempty"`
}

func toTransactionDTO(tx tokens.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:          tx.ID,
		Principal:   string(tx.User),
		Amount:      tx.Amount,
		Description: tx.Description,
		Timestamp:   tx.Timestamp.Format(time.RFC3339Nano),
	}
	if tx.ServiceType != "" {
		dto.ServiceType = strPtr(tx.ServiceType)
	}
	return dto
}

type InitializeResponse struct {
	Granted uint64 `json:"granted"`
}

type EarnRequest struct {
	Amount      uint64 `json:"amount"`
	Description string `json:"description"`
}

type SpendRequest struct {
	Amount      uint64 `json:"amount"`
	Description string `json:"description"`
	ServiceType string `json:"service_type,omitempty"`
}

type BalanceResponse struct {
	Balance uint64 `json:"balance"`
}

// =============================================================================
// DOMAIN TYPES
// =============================================================================

type SubmitReportRequest struct {
	Description string `json:"description"`
}

type SubmitResultDTO struct {
	ID     uint64         `json:"id"`
	Reward tokens.Outcome `json:"reward"`
}

type ReportDTO struct {
	ID          uint64 `json:"id"`
	Reporter    string `json:"reporter"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func toReportDTO(rep platform.Report) ReportDTO {
	return ReportDTO{
		ID:          rep.ID,
		Reporter:    string(rep.Reporter),
		Timestamp:   rep.Timestamp.Format(time.RFC3339Nano),
		Description: rep.Description,
		Status:      string(rep.Status),
	}
}

type SubmitServiceRequestRequest struct {
	ServiceType string `json:"service_type"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type ServiceRequestDTO struct {
	ID          uint64 `json:"id"`
	Requester   string `json:"requester"`
	ServiceType string `json:"service_type"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

func toServiceRequestDTO(req platform.ServiceRequest) ServiceRequestDTO {
	return ServiceRequestDTO{
		ID:          req.ID,
		Requester:   string(req.Requester),
		ServiceType: string(req.ServiceType),
		Description: req.Description,
		Priority:    string(req.Priority),
		Status:      string(req.Status),
		SubmittedAt: req.SubmittedAt.Format(time.RFC3339Nano),
	}
}

type ScheduleAppointmentRequest struct {
	ServiceType string `json:"service_type"`
	Datetime    string `json:"datetime"`
	Notes       string `json:"notes,omitempty"`
}

type AppointmentDTO struct {
	ID          uint64 `json:"id"`
	Principal   string `json:"principal"`
	ServiceType string `json:"service_type"`
	Datetime    string `json:"datetime"`
	Notes       string `json:"notes,omitempty"`
	Status      string `json:"status"`
}

func toAppointmentDTO(appt platform.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:          appt.ID,
		Principal:   string(appt.User),
		ServiceType: string(appt.ServiceType),
		Datetime:    appt.Datetime.Format(time.RFC3339),
		Notes:       appt.Notes,
		Status:      string(appt.Status),
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type RegisterProviderRequest struct {
	Principal   string `json:"principal"`
	Name        string `json:"name"`
	ServiceType string `json:"service_type"`
}

type ProviderDTO struct {
	ID          uint64 `json:"id"`
	Principal   string `json:"principal"`
	Name        string `json:"name"`
	ServiceType string `json:"service_type"`
	AddedAt     string `json:"added_at"`
}

func toProviderDTO(p platform.Provider) ProviderDTO {
	return ProviderDTO{
		ID:          p.ID,
		Principal:   string(p.Identity),
		Name:        p.Name,
		ServiceType: string(p.ServiceType),
		AddedAt:     p.AddedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
