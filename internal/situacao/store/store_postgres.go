package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"escriba/internal/platform/postgres"
	"escriba/internal/situacao/models"
	"escriba/pkg/pagination"
	"escriba/pkg/platform/sentinel"
	"escriba/pkg/platform/tx"
)

// PostgresStore persists situações in the situacoes table. Queries run on
// the transaction carried by ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, situacao *models.Situacao) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`INSERT INTO situacoes (id, nome) VALUES ($1, $2)`,
		situacao.ID, situacao.Nome,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("insert situacao: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert situacao: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, situacao *models.Situacao) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE situacoes SET nome = $2 WHERE id = $1`,
		situacao.ID, situacao.Nome,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("update situacao: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("update situacao: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Situacao, error) {
	return s.findOne(ctx, `SELECT id, nome FROM situacoes WHERE id = $1`, id)
}

func (s *PostgresStore) FindByNome(ctx context.Context, nome string) (*models.Situacao, error) {
	return s.findOne(ctx, `SELECT id, nome FROM situacoes WHERE LOWER(nome) = LOWER($1)`, nome)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Situacao, error) {
	var situacao models.Situacao
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, query, arg).Scan(&situacao.ID, &situacao.Nome)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find situacao: %w", err)
	}
	return &situacao, nil
}

// Delete removes the row. A foreign key violation is reported as
// sentinel.ErrInUse.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM situacoes WHERE id = $1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("delete situacao %s: %w", id, sentinel.ErrInUse)
		}
		return fmt.Errorf("delete situacao: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) List(ctx context.Context, req pagination.Request) ([]*models.Situacao, int, error) {
	exec := tx.Executor(ctx, s.db)

	var total int
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM situacoes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count situacoes: %w", err)
	}

	rows, err := exec.QueryContext(ctx,
		`SELECT id, nome FROM situacoes `+postgres.OrderByTextID(req)+` LIMIT $1 OFFSET $2`,
		req.Size, req.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list situacoes: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Situacao, 0, req.Size)
	for rows.Next() {
		var situacao models.Situacao
		if err := rows.Scan(&situacao.ID, &situacao.Nome); err != nil {
			return nil, 0, fmt.Errorf("scan situacao: %w", err)
		}
		out = append(out, &situacao)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate situacoes: %w", err)
	}
	return out, total, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var total int
	if err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM situacoes`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count situacoes: %w", err)
	}
	return total, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
