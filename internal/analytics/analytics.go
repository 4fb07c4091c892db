package analytics

import "time"

// TrainingStats is the catalog-wide aggregate served to LMS managers and
// admins on the dashboard.
type TrainingStats struct {
	Total         int             `json:"total"`
	Available     int             `json:"available"`
	Full          int             `json:"full"`
	Completed     int             `json:"completed"`
	ByCategory    map[string]int  `json:"by_category"`
	CategoryStats []CategoryCount `json:"category_stats"`
	ApprovalStats ApprovalStats   `json:"approval_stats"`
	CostStats     CostStats       `json:"cost_stats"`
	TopTrainings  []TopTraining   `json:"top_trainings"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ApprovalStats counts registrations by workflow outcome. Both pending
// stages fold into one pending bucket.
type ApprovalStats struct {
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// CostStats sums price × seats taken across the catalog. Averages are
// rounded to whole cents and zero when the divisor is zero.
type CostStats struct {
	TotalSpentCents            int64 `json:"total_spent_cents"`
	AveragePerTrainingCents    int64 `json:"average_per_training_cents"`
	AveragePerParticipantCents int64 `json:"average_per_participant_cents"`
}

// TopTraining is one row of the participation leaderboard. Ties keep
// catalog insertion order.
type TopTraining struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	ParticipantCount int    `json:"participant_count"`
	CompletionRate   int    `json:"completion_rate"`
}

// EmployeeStats is the per-user training summary.
type EmployeeStats struct {
	UserID               int64      `json:"user_id"`
	TotalTrainings       int        `json:"total_trainings"`
	CompletedTrainings   int        `json:"completed_trainings"`
	ActiveTrainings      int        `json:"active_trainings"`
	PendingApprovals     int        `json:"pending_approvals"`
	Certificates         int        `json:"certificates"`
	ExpiringCertificates int        `json:"expiring_certificates"`
	CompletionRate       int        `json:"completion_rate"`
	LastTrainingDate     *time.Time `json:"last_training_date,omitempty"`
}

// CompletionRate is completed/total as a percentage rounded to the nearest
// integer, defined as 0 when total is 0.
func CompletionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(completed)/float64(total)*100 + 0.5)
}
