package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/evans-studio/detailor-booking/internal/domain"
	"github.com/evans-studio/detailor-booking/pkg/dbmetrics"
	"github.com/evans-studio/detailor-booking/pkg/psqlbuilder"
)

// Repository репозиторий расписания: недельные паттерны и блэкауты
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetPatternsByTenant получает все недельные паттерны арендатора
// Не более одного паттерна на день недели
func (r *Repository) GetPatternsByTenant(ctx context.Context, tenantID int64) ([]*domain.WorkPattern, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"weekday",
		"start_time",
		"end_time",
		"slot_duration_min",
		"capacity",
		"created_at",
		"updated_at",
	).
		From("work_patterns").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPatternsByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPatternsByTenant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	patterns := make([]*domain.WorkPattern, 0)
	for rows.Next() {
		var p domain.WorkPattern
		var weekday int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&p.ID,
			&p.TenantID,
			&weekday,
			&p.StartTime,
			&p.EndTime,
			&p.SlotDurationMin,
			&p.Capacity,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetPatternsByTenant - scan row: %v", ErrScanRow, err)
		}

		p.Weekday = time.Weekday(weekday)
		p.CreatedAt = createdAt.Time
		p.UpdatedAt = updatedAt.Time
		patterns = append(patterns, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetPatternsByTenant - rows error: %v", ErrScanRow, err)
	}

	return patterns, nil
}

// UpsertPattern создает или обновляет паттерн на день недели
// Уникальность (tenant_id, weekday) обеспечивается constraint'ом в БД
func (r *Repository) UpsertPattern(ctx context.Context, pattern *domain.WorkPattern) (*domain.WorkPattern, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("work_patterns").
		Columns(
			"tenant_id",
			"weekday",
			"start_time",
			"end_time",
			"slot_duration_min",
			"capacity",
		).
		Values(
			pattern.TenantID,
			int(pattern.Weekday),
			pattern.StartTime,
			pattern.EndTime,
			pattern.SlotDurationMin,
			pattern.Capacity,
		).
		Suffix(`ON CONFLICT (tenant_id, weekday) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration_min = EXCLUDED.slot_duration_min,
			capacity = EXCLUDED.capacity,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertPattern - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&pattern.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertPattern - execute insert: %v", ErrExecQuery, err)
	}

	pattern.CreatedAt = createdAt.Time
	pattern.UpdatedAt = updatedAt.Time

	return pattern, nil
}

// DeletePattern удаляет паттерн на день недели
func (r *Repository) DeletePattern(ctx context.Context, tenantID int64, weekday time.Weekday) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("work_patterns").
		Where(squirrel.Eq{"tenant_id": tenantID, "weekday": int(weekday)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeletePattern - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeletePattern - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeletePattern - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPatternNotFound
	}

	return nil
}

// GetBlackoutsInRange получает блэкауты арендатора, пересекающиеся
// с интервалом [startAt, endAt)
func (r *Repository) GetBlackoutsInRange(ctx context.Context, tenantID int64, startAt, endAt time.Time) ([]*domain.Blackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"starts_at",
		"ends_at",
		"reason",
		"created_at",
	).
		From("blackouts").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Gt{"ends_at": startAt}).
		Where(squirrel.Lt{"starts_at": endAt}).
		OrderBy("starts_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackoutsInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackoutsInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blackouts := make([]*domain.Blackout, 0)
	for rows.Next() {
		var b domain.Blackout
		var createdAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.TenantID,
			&b.StartsAt,
			&b.EndsAt,
			&b.Reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetBlackoutsInRange - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		blackouts = append(blackouts, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlackoutsInRange - rows error: %v", ErrScanRow, err)
	}

	return blackouts, nil
}

// CreateBlackout создает блэкаут
func (r *Repository) CreateBlackout(ctx context.Context, blackout *domain.Blackout) (*domain.Blackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blackouts").
		Columns("tenant_id", "starts_at", "ends_at", "reason").
		Values(blackout.TenantID, blackout.StartsAt, blackout.EndsAt, blackout.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlackout - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&blackout.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlackout - execute insert: %v", ErrExecQuery, err)
	}

	blackout.CreatedAt = createdAt.Time

	return blackout, nil
}

// DeleteBlackout удаляет блэкаут арендатора
func (r *Repository) DeleteBlackout(ctx context.Context, tenantID, blackoutID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blackouts").
		Where(squirrel.Eq{"id": blackoutID, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlackoutNotFound
	}

	return nil
}
