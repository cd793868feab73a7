package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/placement-cell/placement-api/internal/models"
)

// DashboardRepository computes the aggregate counts behind the admin
// dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Stats runs the dashboard aggregate queries.
func (r *DashboardRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		ByDepartment: map[string]models.DeptPlacement{},
		GeneratedAt:  time.Now().UTC(),
	}

	const countsQuery = `SELECT
        (SELECT COUNT(*) FROM students) AS total_students,
        (SELECT COUNT(*) FROM students WHERE profile_completed) AS profiles_completed,
        (SELECT COUNT(*) FROM students WHERE placement_status = $1) AS placed_students,
        (SELECT COUNT(*) FROM students WHERE placement_status = $2) AS not_placed_students,
        (SELECT COUNT(*) FROM staff_profiles) AS total_staff,
        (SELECT COUNT(*) FROM companies) AS total_drives,
        (SELECT COUNT(*) FROM companies WHERE status = $3) AS active_drives,
        (SELECT COUNT(*) FROM feedbacks WHERE status = $4) AS feedbacks_submitted,
        (SELECT COUNT(*) FROM feedbacks WHERE status = $5) AS feedbacks_verified`
	row := r.db.QueryRowxContext(ctx, countsQuery,
		models.PlacementPlaced, models.PlacementNotPlaced,
		models.DriveActive, models.FeedbackSubmitted, models.FeedbackVerified)
	if err := row.Scan(&stats.TotalStudents, &stats.ProfilesCompleted, &stats.PlacedStudents,
		&stats.NotPlacedStudents, &stats.TotalStaff, &stats.TotalDrives, &stats.ActiveDrives,
		&stats.FeedbacksSubmitted, &stats.FeedbacksVerified); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	const deptQuery = `SELECT department,
        COUNT(*) AS total,
        COUNT(*) FILTER (WHERE placement_status = $1) AS placed
        FROM students WHERE department <> '' GROUP BY department`
	rows, err := r.db.QueryxContext(ctx, deptQuery, models.PlacementPlaced)
	if err != nil {
		return nil, fmt.Errorf("dashboard departments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dept string
		var entry models.DeptPlacement
		if err := rows.Scan(&dept, &entry.Total, &entry.Placed); err != nil {
			return nil, fmt.Errorf("scan department row: %w", err)
		}
		stats.ByDepartment[dept] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department rows: %w", err)
	}
	return stats, nil
}
