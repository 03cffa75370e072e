package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fleet-admin/internal/domain"
)

// StatusHistoryRepository stores employee status audit entries.
type StatusHistoryRepository interface {
	Create(ctx context.Context, entry *domain.StatusHistoryEntry) error
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]domain.StatusHistoryEntry, error)
}

type statusHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStatusHistoryRepository builds repository.
func NewStatusHistoryRepository(pool *pgxpool.Pool) StatusHistoryRepository {
	return &statusHistoryRepository{pool: pool}
}

// Create inserts the entry. Replaying an already recorded event is a no-op.
func (r *statusHistoryRepository) Create(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	const query = `
        INSERT INTO employee_status_history (event_id, employee_id, employee_name, branch_id, old_status, new_status, actor_user_id, actor_role)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (event_id) DO UPDATE SET event_id = EXCLUDED.event_id
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.EventID,
		entry.EmployeeID,
		entry.EmployeeName,
		entry.BranchID,
		entry.OldStatus,
		entry.NewStatus,
		entry.ActorUserID,
		entry.ActorRole,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *statusHistoryRepository) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]domain.StatusHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, event_id, employee_id, employee_name, branch_id, old_status, new_status, actor_user_id, actor_role, created_at
        FROM employee_status_history WHERE employee_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.StatusHistoryEntry, 0)
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.EventID,
			&entry.EmployeeID,
			&entry.EmployeeName,
			&entry.BranchID,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.ActorUserID,
			&entry.ActorRole,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
