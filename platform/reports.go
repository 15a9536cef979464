// reports.go - Incident report submission and queries.
package platform

import (
	"context"
	"strings"

	"github.com/Kintaraa/kentaraa/tokens"
)

// SubmitReport validates and commits a report, then credits the report
// submission reward. The returned SubmitResult carries the report id and
// the reward outcome; a failed reward does not fail the submission.
func (r *Registry) SubmitReport(ctx context.Context, reporter tokens.Identity, description string) (SubmitResult, error) {
	if strings.TrimSpace(description) == "" {
		return SubmitResult{}, &ValidationError{Field: "description", Reason: "must not be empty"}
	}

	r.mu.Lock()
	id := r.reportSeq.Next()
	r.reports[id] = Report{
		ID:          id,
		Reporter:    reporter,
		Timestamp:   r.now(),
		Description: description,
		Status:      ReportSubmitted,
	}
	r.reportsByUser[reporter] = append(r.reportsByUser[reporter], id)
	r.mu.Unlock()

	// Reward dispatch happens after the commit and outside the lock.
	outcome := r.rewards.Dispatch(ctx, reporter, tokens.RewardReportSubmission)
	return SubmitResult{ID: id, Reward: outcome}, nil
}

// GetReport returns the report with the given id.
func (r *Registry) GetReport(_ context.Context, id uint64) (Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.reports[id]
	if !ok {
		return Report{}, tokens.ErrNotFound
	}
	return report, nil
}

// UserReports returns all reports submitted by user, in creation order.
func (r *Registry) UserReports(_ context.Context, user tokens.Identity) []Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []Report{}
	for _, id := range r.reportsByUser[user] {
		result = append(result, r.reports[id])
	}
	return result
}

// UpdateReportStatus overwrites the report's status. No transition guard:
// any status may replace any other.
func (r *Registry) UpdateReportStatus(_ context.Context, id uint64, status ReportStatus) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown report status"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[id]
	if !ok {
		return tokens.ErrNotFound
	}
	report.Status = status
	r.reports[id] = report
	return nil
}
