// appointments.go - Appointment scheduling and queries.
package platform

import (
	"context"
	"time"

	"github.com/Kintaraa/kentaraa/tokens"
)

// ScheduleAppointment validates and commits an appointment. Appointments
// do not trigger rewards.
func (r *Registry) ScheduleAppointment(_ context.Context, user tokens.Identity, serviceType ServiceType, datetime time.Time, notes string) (uint64, error) {
	if !serviceType.Valid() {
		return 0, &ValidationError{Field: "service_type", Reason: "unknown service type"}
	}
	if datetime.IsZero() {
		return 0, &ValidationError{Field: "datetime", Reason: "must be set"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.appointmentSeq.Next()
	r.appointments[id] = Appointment{
		ID:          id,
		User:        user,
		ServiceType: serviceType,
		Datetime:    datetime,
		Notes:       notes,
		Status:      AppointmentScheduled,
	}
	r.appointmentsByUser[user] = append(r.appointmentsByUser[user], id)
	return id, nil
}

// GetAppointment returns the appointment with the given id.
func (r *Registry) GetAppointment(_ context.Context, id uint64) (Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.appointments[id]
	if !ok {
		return Appointment{}, tokens.ErrNotFound
	}
	return appt, nil
}

// UserAppointments returns all appointments for user, in creation order.
func (r *Registry) UserAppointments(_ context.Context, user tokens.Identity) []Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []Appointment{}
	for _, id := range r.appointmentsByUser[user] {
		result = append(result, r.appointments[id])
	}
	return result
}

// UpdateAppointmentStatus overwrites the appointment's status. No
// transition guard: any status may replace any other.
func (r *Registry) UpdateAppointmentStatus(_ context.Context, id uint64, status AppointmentStatus) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown appointment status"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return tokens.ErrNotFound
	}
	appt.Status = status
	r.appointments[id] = appt
	return nil
}
