/*
Package platform provides the Kintaraa domain collaborators: incident
reports, service requests, appointments and provider records.

PURPOSE:

	These are plain keyed collections with counter-assigned ids. They commit
	their own state first and only then invoke the reward dispatcher, so a
	reward failure can never undo a committed report or registration.

STATUS FIELDS:

	Each entity carries a status from a small closed set. Updates overwrite
	the status without a transition guard: any status may be set to any
	other by an update call given the entity id. The reward coupling does
	not depend on status, only on the creation event.

SEE ALSO:
  - registry.go: The Registry owning these collections
  - tokens/rewards.go: Dispatcher and partial-failure contract
*/
package platform

import (
	"time"

	"github.com/Kintaraa/kentaraa/tokens"
)

// =============================================================================
// SERVICE CATEGORIES AND PRIORITIES
// =============================================================================

type ServiceType string

const (
	ServiceLegal      ServiceType = "Legal"
	ServiceMedical    ServiceType = "Medical"
	ServiceCounseling ServiceType = "Counseling"
	ServicePolice     ServiceType = "Police"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceLegal, ServiceMedical, ServiceCounseling, ServicePolice:
		return true
	}
	return false
}

type Priority string

const (
	PriorityEmergency Priority = "Emergency"
	PriorityHigh      Priority = "High"
	PriorityMedium    Priority = "Medium"
	PriorityLow       Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityEmergency, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// =============================================================================
// REPORTS
// =============================================================================

type ReportStatus string

const (
	ReportSubmitted   ReportStatus = "Submitted"
	ReportUnderReview ReportStatus = "UnderReview"
	ReportInProgress  ReportStatus = "InProgress"
	ReportResolved    ReportStatus = "Resolved"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportSubmitted, ReportUnderReview, ReportInProgress, ReportResolved:
		return true
	}
	return false
}

type Report struct {
	ID          uint64
	Reporter    tokens.Identity
	Timestamp   time.Time
	Description string
	Status      ReportStatus
}

// =============================================================================
// SERVICE REQUESTS
// =============================================================================

type RequestStatus string

const (
	RequestPending    RequestStatus = "Pending"
	RequestInProgress RequestStatus = "InProgress"
	RequestCompleted  RequestStatus = "Completed"
	RequestCancelled  RequestStatus = "Cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestInProgress, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

type ServiceRequest struct {
	ID          uint64
	Requester   tokens.Identity
	ServiceType ServiceType
	Description string
	Priority    Priority
	Status      RequestStatus
	SubmittedAt time.Time
}

// =============================================================================
// APPOINTMENTS
// =============================================================================

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "Scheduled"
	AppointmentConfirmed AppointmentStatus = "Confirmed"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID          uint64
	User        tokens.Identity
	ServiceType ServiceType
	Datetime    time.Time
	Notes       string
	Status      AppointmentStatus
}

// =============================================================================
// PROVIDERS
// =============================================================================

// Provider is a registered service provider. Ids come from the provider
// sequence, never from the provider's identity, so two providers can
// never collide.
type Provider struct {
	ID          uint64
	Identity    tokens.Identity
	Name        string
	ServiceType ServiceType
	AddedAt     time.Time
}

// =============================================================================
// RESULTS
// =============================================================================

// SubmitResult is the outcome of a committing action that also triggers a
// reward. ID is the committed entity's id; Reward reports whether the
// associated credit landed. A failed reward never fails the submission.
type SubmitResult struct {
	ID     uint64
	Reward tokens.Outcome
}
