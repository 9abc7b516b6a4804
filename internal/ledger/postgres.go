package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	"github.com/YoungStar1994/VibeVote-Live/internal/identity"
	"github.com/YoungStar1994/VibeVote-Live/pkg/requestcontext"
	"github.com/YoungStar1994/VibeVote-Live/pkg/sentinel"
)

// Postgres persists the ledger in PostgreSQL. Each Store call runs inside
// one transaction; a failure anywhere rolls the whole unit back, so a count
// increment without its record (or vice versa) is never observable.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres-backed ledger.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const pqUniqueViolation = "23505"

func (s *Postgres) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, votes FROM programs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()
	return scanPrograms(rows)
}

func (s *Postgres) GetProgram(ctx context.Context, id int64) (domain.Program, error) {
	var p domain.Program
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, votes FROM programs WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.Votes)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Program{}, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.Program{}, fmt.Errorf("get program: %w", err)
	}
	return p, nil
}

func (s *Postgres) CreateProgram(ctx context.Context, name, category string) (domain.Program, error) {
	p := domain.Program{Name: name, Category: category}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO programs (name, category, votes) VALUES ($1, $2, 0) RETURNING id`,
		name, category).Scan(&p.ID)
	if err != nil {
		return domain.Program{}, fmt.Errorf("create program: %w", err)
	}
	return p, nil
}

func (s *Postgres) UpdateProgram(ctx context.Context, id int64, name, category string, votes *int64) (domain.Program, error) {
	var p domain.Program
	var err error
	if votes != nil {
		err = s.db.QueryRowContext(ctx,
			`UPDATE programs SET name = $2, category = $3, votes = $4
			 WHERE id = $1 RETURNING id, name, category, votes`,
			id, name, category, *votes).
			Scan(&p.ID, &p.Name, &p.Category, &p.Votes)
	} else {
		err = s.db.QueryRowContext(ctx,
			`UPDATE programs SET name = $2, category = $3
			 WHERE id = $1 RETURNING id, name, category, votes`,
			id, name, category).
			Scan(&p.ID, &p.Name, &p.Category, &p.Votes)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Program{}, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.Program{}, fmt.Errorf("update program: %w", err)
	}
	return p, nil
}

func (s *Postgres) DeleteProgram(ctx context.Context, id int64) error {
	// ON DELETE CASCADE clears the program's vote records with it.
	res, err := s.db.ExecContext(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) CastVote(ctx context.Context, programID int64, key identity.Key, userToken string) ([]domain.Program, error) {
	var tally []domain.Program
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		// Pre-check gives the common duplicate case a clean answer without
		// burning a constraint violation; the UNIQUE indexes still decide
		// races.
		var dup bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(
				SELECT 1 FROM vote_records
				WHERE identity_key = $1 OR (user_token = $2 AND $2 <> '')
			)`, string(key), userToken).Scan(&dup)
		if err != nil {
			return fmt.Errorf("duplicate check: %w", err)
		}
		if dup {
			return sentinel.ErrDuplicate
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE programs SET votes = votes + 1 WHERE id = $1`, programID)
		if err != nil {
			return fmt.Errorf("increment votes: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("increment votes: %w", err)
		}
		if affected == 0 {
			return sentinel.ErrNotFound
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO vote_records (id, identity_key, user_token, program_id, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), string(key), nullable(userToken), programID,
			requestcontext.Now(ctx))
		if err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrDuplicate
			}
			return fmt.Errorf("append vote record: %w", err)
		}

		tally, err = listProgramsTx(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tally, nil
}

func (s *Postgres) RevokeVote(ctx context.Context, key identity.Key, userToken string) ([]domain.Program, error) {
	var tally []domain.Program
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var recordID string
		var programID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id, program_id FROM vote_records
			 WHERE identity_key = $1 OR (user_token = $2 AND $2 <> '')
			 FOR UPDATE`, string(key), userToken).Scan(&recordID, &programID)
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNoVote
		}
		if err != nil {
			return fmt.Errorf("find vote record: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM vote_records WHERE id = $1`, recordID); err != nil {
			return fmt.Errorf("delete vote record: %w", err)
		}
		// GREATEST guards against an admin override having already pushed
		// the displayed count below the log size.
		if _, err := tx.ExecContext(ctx,
			`UPDATE programs SET votes = GREATEST(votes - 1, 0) WHERE id = $1`,
			programID); err != nil {
			return fmt.Errorf("decrement votes: %w", err)
		}

		tally, err = listProgramsTx(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tally, nil
}

func (s *Postgres) Status(ctx context.Context, key identity.Key, userToken string) (domain.VoteStatus, error) {
	var programID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT program_id FROM vote_records
		 WHERE identity_key = $1 OR (user_token = $2 AND $2 <> '')`,
		string(key), userToken).Scan(&programID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VoteStatus{}, nil
	}
	if err != nil {
		return domain.VoteStatus{}, fmt.Errorf("vote status: %w", err)
	}
	return domain.VoteStatus{HasVoted: true, ProgramID: programID}, nil
}

func (s *Postgres) ResetAll(ctx context.Context) ([]domain.Program, error) {
	var tally []domain.Program
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE programs SET votes = 0`); err != nil {
			return fmt.Errorf("zero counts: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM vote_records`); err != nil {
			return fmt.Errorf("clear vote log: %w", err)
		}
		var err error
		tally, err = listProgramsTx(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tally, nil
}

// inTx runs fn inside a transaction, rolling back on any error.
func (s *Postgres) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func listProgramsTx(ctx context.Context, tx *sql.Tx) ([]domain.Program, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, category, votes FROM programs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()
	return scanPrograms(rows)
}

func scanPrograms(rows *sql.Rows) ([]domain.Program, error) {
	tally := []domain.Program{}
	for rows.Next() {
		var p domain.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Votes); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		tally = append(tally, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}
	return tally, nil
}

// nullable maps the empty string to NULL so the user_token UNIQUE index only
// applies to real tokens.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

var _ Store = (*Postgres)(nil)
