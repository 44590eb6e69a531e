package pricing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/evans-studio/detailor-booking/internal/domain"
	"github.com/evans-studio/detailor-booking/pkg/dbmetrics"
	"github.com/evans-studio/detailor-booking/pkg/psqlbuilder"
)

// Repository репозиторий услуг, доп. услуг и конфигурации цен
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория цен
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает активную услугу арендатора
func (r *Repository) GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"name",
		"base_price",
		"base_duration_min",
		"active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "tenant_id": tenantID, "active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.TenantID,
		&service.Name,
		&service.BasePrice,
		&service.BaseDurationMin,
		&service.Active,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// GetAddOns получает активные доп. услуги арендатора по списку ID
// Неизвестные ID молча опускаются - цена деградирует, а не падает
func (r *Repository) GetAddOns(ctx context.Context, tenantID int64, addonIDs []int64) ([]*domain.AddOn, error) {
	if len(addonIDs) == 0 {
		return []*domain.AddOn{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"name",
		"price_delta",
		"active",
	).
		From("addons").
		Where(squirrel.Eq{"tenant_id": tenantID, "active": true}).
		Where(squirrel.Eq{"id": addonIDs}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAddOns - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAddOns - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	addons := make([]*domain.AddOn, 0, len(addonIDs))
	for rows.Next() {
		var addon domain.AddOn
		err := rows.Scan(
			&addon.ID,
			&addon.TenantID,
			&addon.Name,
			&addon.PriceDelta,
			&addon.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAddOns - scan row: %v", ErrScanRow, err)
		}
		addons = append(addons, &addon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAddOns - rows error: %v", ErrScanRow, err)
	}

	return addons, nil
}

// GetConfig получает конфигурацию цен арендатора
// Множители классов автомобилей хранятся в JSONB колонке
func (r *Repository) GetConfig(ctx context.Context, tenantID int64) (*domain.PricingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"tenant_id",
		"vehicle_tiers",
		"tax_rate",
		"free_radius_miles",
		"surcharge_per_mile",
		"updated_at",
	).
		From("pricing_configs").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetConfig - build select query: %v", ErrBuildQuery, err)
	}

	var config domain.PricingConfig
	var tiersRaw []byte
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.TenantID,
		&tiersRaw,
		&config.TaxRate,
		&config.Distance.FreeRadiusMiles,
		&config.Distance.SurchargePerMile,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfig - scan config: %v", ErrScanRow, err)
	}

	config.VehicleTiers = map[string]float64{}
	if len(tiersRaw) > 0 {
		if err := json.Unmarshal(tiersRaw, &config.VehicleTiers); err != nil {
			return nil, fmt.Errorf("%w: GetConfig - unmarshal vehicle tiers: %v", ErrScanRow, err)
		}
	}

	config.UpdatedAt = updatedAt.Time

	return &config, nil
}

// UpsertConfig создает или обновляет конфигурацию цен арендатора
func (r *Repository) UpsertConfig(ctx context.Context, config *domain.PricingConfig) (*domain.PricingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	tiersRaw, err := json.Marshal(config.VehicleTiers)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertConfig - marshal vehicle tiers: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("pricing_configs").
		Columns(
			"tenant_id",
			"vehicle_tiers",
			"tax_rate",
			"free_radius_miles",
			"surcharge_per_mile",
		).
		Values(
			config.TenantID,
			tiersRaw,
			config.TaxRate,
			config.Distance.FreeRadiusMiles,
			config.Distance.SurchargePerMile,
		).
		Suffix(`ON CONFLICT (tenant_id) DO UPDATE SET
			vehicle_tiers = EXCLUDED.vehicle_tiers,
			tax_rate = EXCLUDED.tax_rate,
			free_radius_miles = EXCLUDED.free_radius_miles,
			surcharge_per_mile = EXCLUDED.surcharge_per_mile,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertConfig - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertConfig - execute insert: %v", ErrExecQuery, err)
	}

	config.UpdatedAt = updatedAt.Time

	return config, nil
}
