package company

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

// Repository репозиторий компаний. Компании заводятся внешней системой, здесь только чтение
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория компаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает компанию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "company_name", "allocated_parking_slots").
		From("companies").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var company domain.Company
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&company.ID,
		&company.Name,
		&company.AllocatedParkingSlots,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan company: %v", ErrScanRow, err)
	}

	return &company, nil
}

// List получает все компании, упорядоченные по названию.
// Компании из exclude в выборку не попадают
func (r *Repository) List(ctx context.Context, exclude []int64) ([]*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "company_name", "allocated_parking_slots").
		From("companies").
		OrderBy("company_name ASC", "id ASC")

	if len(exclude) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": exclude})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	companies := make([]*domain.Company, 0)
	for rows.Next() {
		var company domain.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.AllocatedParkingSlots); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		companies = append(companies, &company)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return companies, nil
}
