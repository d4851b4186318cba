// AngelaMos | 2026
// repository.go

package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	GetOwned(ctx context.Context, id, ownerID string) (*Property, error)
	Related(ctx context.Context, p *Property, limit int) ([]Property, error)
	Search(ctx context.Context, params SearchParams, now time.Time) ([]Property, error)
	Featured(ctx context.Context, limit int) ([]Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Property, error)
	Update(ctx context.Context, p *Property) error
	Edit(ctx context.Context, id, ownerID string, apply func(*Property) error) (*Property, error)
	Delete(ctx context.Context, id, ownerID string) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db      core.DBTX
	pool    *sqlx.DB
	builder squirrel.StatementBuilderType
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{
		db:      db,
		pool:    db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *repository) selectListings() squirrel.SelectBuilder {
	return r.builder.Select(propertyColumns...).From("properties")
}

func (r *repository) Create(ctx context.Context, p *Property) error {
	values := columnValues(p)
	values["id"] = p.ID
	values["created_by"] = p.CreatedBy

	query, args, err := r.builder.Insert("properties").
		SetMap(values).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert property sql: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).
		Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create property: %w", err)
	}

	return nil
}

func (r *repository) getOne(
	ctx context.Context,
	op string,
	q squirrel.SelectBuilder,
) (*Property, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s sql: %w", op, err)
	}

	var row propertyRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := row.toProperty()
	return &p, nil
}

func (r *repository) list(
	ctx context.Context,
	op string,
	q squirrel.SelectBuilder,
) ([]Property, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s sql: %w", op, err)
	}

	var rows []propertyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]Property, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toProperty())
	}
	return out, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Property, error) {
	return r.getOne(ctx, "get property", r.selectListings().Where(squirrel.Eq{"id": id}))
}

func (r *repository) GetOwned(
	ctx context.Context,
	id, ownerID string,
) (*Property, error) {
	return r.getOne(ctx, "get owned property", r.selectListings().Where(squirrel.Eq{
		"id":         id,
		"created_by": ownerID,
	}))
}

func (r *repository) Related(
	ctx context.Context,
	p *Property,
	limit int,
) ([]Property, error) {
	return r.list(ctx, "related properties", r.selectListings().
		Where(relatedFilter(p)).
		OrderBy("created_at DESC").
		Limit(uint64(limit)))
}

func (r *repository) Search(
	ctx context.Context,
	params SearchParams,
	now time.Time,
) ([]Property, error) {
	return r.list(ctx, "search properties", r.selectListings().
		Where(params.Filter(now)).
		OrderBy("created_at DESC"))
}

func (r *repository) Featured(ctx context.Context, limit int) ([]Property, error) {
	return r.list(ctx, "featured properties", r.selectListings().
		Where(squirrel.Eq{"is_premium": true}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)))
}

func (r *repository) ListByOwner(
	ctx context.Context,
	ownerID string,
) ([]Property, error) {
	return r.list(ctx, "list owner properties", r.selectListings().
		Where(squirrel.Eq{"created_by": ownerID}).
		OrderBy("created_at DESC"))
}

// Update rewrites every mutable column of a listing the caller owns.
// created_by is part of the match, never of the SET list.
func (r *repository) Update(ctx context.Context, p *Property) error {
	query, args, err := r.builder.Update("properties").
		SetMap(columnValues(p)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID, "created_by": p.CreatedBy}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update property sql: %w", err)
	}

	err = r.db.GetContext(ctx, &p.UpdatedAt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update property: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}

	return nil
}

// Edit locks an owned listing, lets apply rewrite it and stores the
// result in one transaction. Any error from apply rolls the edit back.
func (r *repository) Edit(
	ctx context.Context,
	id, ownerID string,
	apply func(*Property) error,
) (*Property, error) {
	var edited *Property
	err := core.InTx(ctx, r.pool, func(tx *sqlx.Tx) error {
		scoped := &repository{db: tx, builder: r.builder}

		current, err := scoped.getOne(ctx, "lock owned property", scoped.selectListings().
			Where(squirrel.Eq{"id": id, "created_by": ownerID}).
			Suffix("FOR UPDATE"))
		if err != nil {
			return err
		}

		if err := apply(current); err != nil {
			return err
		}
		current.ID = id
		current.CreatedBy = ownerID

		if err := scoped.Update(ctx, current); err != nil {
			return err
		}
		edited = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

func (r *repository) Delete(ctx context.Context, id, ownerID string) error {
	query, args, err := r.builder.Delete("properties").
		Where(squirrel.Eq{"id": id, "created_by": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete property sql: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete property: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM properties`); err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return n, nil
}
