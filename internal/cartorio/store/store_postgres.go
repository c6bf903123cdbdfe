package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"escriba/internal/cartorio/models"
	"escriba/internal/platform/postgres"
	"escriba/pkg/pagination"
	"escriba/pkg/platform/sentinel"
	"escriba/pkg/platform/tx"
)

// selectRecord reads a cartório row with its linked ids aggregated in one
// round trip.
const selectRecord = `
SELECT c.id, c.nome, c.observacao, c.situacao_id,
       COALESCE(array_agg(ca.atribuicao_id ORDER BY ca.atribuicao_id COLLATE "C")
                FILTER (WHERE ca.atribuicao_id IS NOT NULL), '{}')
FROM cartorios c
LEFT JOIN cartorios_atribuicoes ca ON ca.cartorio_id = c.id`

// PostgresStore persists cartórios and the cartorios_atribuicoes join
// table. Multi-statement writes join the transaction carried by ctx, or open
// their own.
type PostgresStore struct {
	db *sql.DB
	tx *tx.SQLManager
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, tx: tx.NewSQLManager(db, nil)}
}

func (s *PostgresStore) Create(ctx context.Context, rec *models.Record) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		_, err := tx.Executor(ctx, s.db).ExecContext(ctx,
			`INSERT INTO cartorios (id, nome, observacao, situacao_id) VALUES ($1, $2, $3, $4)`,
			rec.ID, rec.Nome, rec.Observacao, rec.SituacaoID,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return fmt.Errorf("insert cartorio: %w", sentinel.ErrAlreadyUsed)
			}
			return fmt.Errorf("insert cartorio: %w", err)
		}
		return s.linkAtribuicoes(ctx, rec)
	})
}

// Update rewrites the row and reconciles the links: ids no longer present
// are unlinked and new ones inserted.
func (s *PostgresStore) Update(ctx context.Context, rec *models.Record) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		exec := tx.Executor(ctx, s.db)
		res, err := exec.ExecContext(ctx,
			`UPDATE cartorios SET nome = $2, observacao = $3, situacao_id = $4 WHERE id = $1`,
			rec.ID, rec.Nome, rec.Observacao, rec.SituacaoID,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return fmt.Errorf("update cartorio: %w", sentinel.ErrAlreadyUsed)
			}
			return fmt.Errorf("update cartorio: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return sentinel.ErrNotFound
		}

		if _, err := exec.ExecContext(ctx,
			`DELETE FROM cartorios_atribuicoes WHERE cartorio_id = $1 AND NOT (atribuicao_id = ANY($2))`,
			rec.ID, pq.Array(rec.AtribuicaoIDs),
		); err != nil {
			return fmt.Errorf("unlink atribuicoes: %w", err)
		}
		return s.linkAtribuicoes(ctx, rec)
	})
}

func (s *PostgresStore) linkAtribuicoes(ctx context.Context, rec *models.Record) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`INSERT INTO cartorios_atribuicoes (cartorio_id, atribuicao_id)
		 SELECT $1, unnest($2::varchar[])
		 ON CONFLICT DO NOTHING`,
		rec.ID, pq.Array(rec.AtribuicaoIDs),
	)
	if err != nil {
		return fmt.Errorf("link atribuicoes: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int) (*models.Record, error) {
	return s.findOne(ctx, selectRecord+` WHERE c.id = $1 GROUP BY c.id`, id)
}

// FindByIDForUpdate locks the cartório row for the rest of the transaction
// in ctx, then reads it. The lock is taken separately because FOR UPDATE is
// not allowed with the aggregate in selectRecord.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, id int) (*models.Record, error) {
	var locked int
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id FROM cartorios WHERE id = $1 FOR UPDATE`, id,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock cartorio: %w", err)
	}
	return s.FindByID(ctx, id)
}

func (s *PostgresStore) FindByNome(ctx context.Context, nome string) (*models.Record, error) {
	return s.findOne(ctx, selectRecord+` WHERE LOWER(c.nome) = LOWER($1) GROUP BY c.id`, nome)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Record, error) {
	rec, err := scanRecord(tx.Executor(ctx, s.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find cartorio: %w", err)
	}
	return rec, nil
}

// Delete removes the row; links go with it through ON DELETE CASCADE.
func (s *PostgresStore) Delete(ctx context.Context, id int) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM cartorios WHERE id = $1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("delete cartorio %d: %w", id, sentinel.ErrInUse)
		}
		return fmt.Errorf("delete cartorio: %w", err)
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

func (s *PostgresStore) List(ctx context.Context, req pagination.Request) ([]*models.Record, int, error) {
	exec := tx.Executor(ctx, s.db)

	var total int
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM cartorios`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cartorios: %w", err)
	}

	rows, err := exec.QueryContext(ctx,
		selectRecord+` GROUP BY c.id `+postgres.OrderBy(req)+` LIMIT $1 OFFSET $2`,
		req.Size, req.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list cartorios: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Record, 0, req.Size)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan cartorio: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate cartorios: %w", err)
	}
	return out, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.Record, error) {
	var (
		rec        models.Record
		observacao sql.NullString
		ids        pq.StringArray
	)
	if err := row.Scan(&rec.ID, &rec.Nome, &observacao, &rec.SituacaoID, &ids); err != nil {
		return nil, err
	}
	if observacao.Valid {
		rec.Observacao = &observacao.String
	}
	rec.AtribuicaoIDs = []string(ids)
	return &rec, nil
}
