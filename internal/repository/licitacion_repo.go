package repository

import (
	"context"
	"fmt"

	"github.com/senyabanana/licitaciones/internal/models"
	"github.com/senyabanana/licitaciones/internal/query"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LicitacionRepository - интерфейс для выборки тендеров по плану запроса.
type LicitacionRepository interface {
	CountMatching(ctx context.Context, preds []query.Predicate) (int, error)
	SelectRangeMatching(ctx context.Context, preds []query.Predicate, sort query.Sort, offset, limit int) ([]models.Licitacion, error)
}

// PostgresLicitacionRepository - реализация LicitacionRepository для базы данных.
type PostgresLicitacionRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresLicitacionRepository создаёт новый экземпляр PostgresLicitacionRepository.
func NewPostgresLicitacionRepository(db *pgxpool.Pool) *PostgresLicitacionRepository {
	return &PostgresLicitacionRepository{DB: db}
}

// CountMatching возвращает количество строк, подходящих под условия.
func (r *PostgresLicitacionRepository) CountMatching(ctx context.Context, preds []query.Predicate) (int, error) {
	q, args, err := buildCountQuery(preds)
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.DB.QueryRow(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count licitaciones: %w", err)
	}
	return total, nil
}

// SelectRangeMatching возвращает отсортированный срез подходящих строк.
func (r *PostgresLicitacionRepository) SelectRangeMatching(ctx context.Context, preds []query.Predicate, sort query.Sort, offset, limit int) ([]models.Licitacion, error) {
	q, args, err := buildRangeQuery(preds, sort, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build range query: %w", err)
	}

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select licitaciones: %w", err)
	}
	defer rows.Close()

	licitaciones := make([]models.Licitacion, 0)
	for rows.Next() {
		var l models.Licitacion
		if err := rows.Scan(
			&l.ID,
			&l.ProjectName,
			&l.ContractingParty,
			&l.CPVCode,
			&l.NUTSCode,
			&l.TerritoryName,
			&l.ClosingDate,
			&l.Amount,
			&l.NoticeURL); err != nil {
			return nil, fmt.Errorf("failed to scan licitacion: %w", err)
		}
		licitaciones = append(licitaciones, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read licitaciones: %w", err)
	}
	return licitaciones, nil
}
