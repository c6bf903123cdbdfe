package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"escriba/internal/atribuicao/models"
	"escriba/internal/platform/postgres"
	"escriba/pkg/pagination"
	"escriba/pkg/platform/sentinel"
	"escriba/pkg/platform/tx"
)

const selectAtribuicao = `SELECT id, nome, situacao FROM atribuicoes`

// PostgresStore persists atribuições in the atribuicoes table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, a *models.Atribuicao) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`INSERT INTO atribuicoes (id, nome, situacao) VALUES ($1, $2, $3)`,
		a.ID, a.Nome, a.Situacao,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("insert atribuicao: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert atribuicao: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, a *models.Atribuicao) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE atribuicoes SET nome = $2, situacao = $3 WHERE id = $1`,
		a.ID, a.Nome, a.Situacao,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("update atribuicao: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("update atribuicao: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Atribuicao, error) {
	return s.findOne(ctx, selectAtribuicao+` WHERE id = $1`, id)
}

func (s *PostgresStore) FindByNome(ctx context.Context, nome string) (*models.Atribuicao, error) {
	return s.findOne(ctx, selectAtribuicao+` WHERE LOWER(nome) = LOWER($1)`, nome)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Atribuicao, error) {
	var a models.Atribuicao
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.Nome, &a.Situacao)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find atribuicao: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM atribuicoes WHERE id = $1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("delete atribuicao %s: %w", id, sentinel.ErrInUse)
		}
		return fmt.Errorf("delete atribuicao: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, req pagination.Request) ([]*models.Atribuicao, int, error) {
	exec := tx.Executor(ctx, s.db)

	var total int
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM atribuicoes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count atribuicoes: %w", err)
	}
	items, err := s.query(ctx, selectAtribuicao+` `+postgres.OrderByTextID(req)+` LIMIT $1 OFFSET $2`, req.Size, req.Offset())
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListActive uses the partial index on active rows.
func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.Atribuicao, error) {
	return s.query(ctx, selectAtribuicao+` WHERE situacao `+postgres.OrderByTextID(pagination.Default()))
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Atribuicao, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list atribuicoes: %w", err)
	}
	defer rows.Close()

	var out []*models.Atribuicao
	for rows.Next() {
		var a models.Atribuicao
		if err := rows.Scan(&a.ID, &a.Nome, &a.Situacao); err != nil {
			return nil, fmt.Errorf("scan atribuicao: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate atribuicoes: %w", err)
	}
	return out, nil
}
