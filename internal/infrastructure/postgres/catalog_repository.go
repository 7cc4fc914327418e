package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
)

var catalogColumns = []string{"id", "name", "description", "created_at", "updated_at"}

type catalogRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// catalogTable operaciones comunes de categorías y ubicaciones, que comparten columnas.
type catalogTable struct {
	q     Querier
	table string
	label string
}

func (t catalogTable) create(ctx context.Context, row catalogRow) error {
	sql, args, err := psql.Insert(t.table).
		Columns(catalogColumns...).
		Values(row.ID, row.Name, row.Description, row.CreatedAt, row.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", t.table, err)
	}
	if _, err := t.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s", domain.ErrDuplicate, t.label, row.Name)
		}
		return fmt.Errorf("insert %s: %w", t.table, err)
	}
	return nil
}

func (t catalogTable) get(ctx context.Context, where squirrel.Sqlizer) (*catalogRow, error) {
	sql, args, err := psql.Select(catalogColumns...).From(t.table).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", t.table, err)
	}
	var row catalogRow
	if err := pgxscan.Get(ctx, t.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", t.table, err)
	}
	return &row, nil
}

func (t catalogTable) byID(ctx context.Context, id string) (*catalogRow, error) {
	return t.get(ctx, squirrel.Eq{"id": id})
}

func (t catalogTable) byName(ctx context.Context, name string) (*catalogRow, error) {
	return t.get(ctx, squirrel.Expr("lower(name) = lower(?)", strings.TrimSpace(name)))
}

func (t catalogTable) update(ctx context.Context, row catalogRow) error {
	sql, args, err := psql.Update(t.table).
		Set("name", row.Name).
		Set("description", row.Description).
		Set("updated_at", row.UpdatedAt).
		Where(squirrel.Eq{"id": row.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update %s: %w", t.table, err)
	}
	cmd, err := t.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s", domain.ErrDuplicate, t.label, row.Name)
		}
		return fmt.Errorf("update %s: %w", t.table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound(t.label, row.ID)
	}
	return nil
}

func (t catalogTable) list(ctx context.Context) ([]catalogRow, error) {
	sql, args, err := psql.Select(catalogColumns...).From(t.table).OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", t.table, err)
	}
	var rows []catalogRow
	if err := pgxscan.Select(ctx, t.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	return rows, nil
}

func (t catalogTable) delete(ctx context.Context, id string) (bool, error) {
	sql, args, err := psql.Delete(t.table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete %s: %w", t.table, err)
	}
	cmd, err := t.q.Exec(ctx, sql, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("%w: %s con items", domain.ErrInUse, t.label)
		}
		return false, fmt.Errorf("delete %s: %w", t.table, err)
	}
	return cmd.RowsAffected() > 0, nil
}

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	t catalogTable
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{t: catalogTable{q: q, table: "categories", label: "categoría"}}
}

func toCategory(row *catalogRow) *entity.Category {
	if row == nil {
		return nil
	}
	return &entity.Category{
		ID: row.ID, Name: row.Name, Description: deref(row.Description),
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	return r.t.create(ctx, catalogRow{ID: c.ID, Name: c.Name, Description: nullable(c.Description), CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt})
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	row, err := r.t.byID(ctx, id)
	return toCategory(row), err
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	row, err := r.t.byName(ctx, name)
	return toCategory(row), err
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	return r.t.update(ctx, catalogRow{ID: c.ID, Name: c.Name, Description: nullable(c.Description), UpdatedAt: c.UpdatedAt})
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Category, 0, len(rows))
	for i := range rows {
		out = append(out, toCategory(&rows[i]))
	}
	return out, nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	return r.t.delete(ctx, id)
}

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	t catalogTable
}

// NewLocationRepository construye el adaptador de ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{t: catalogTable{q: q, table: "locations", label: "ubicación"}}
}

func toLocation(row *catalogRow) *entity.Location {
	if row == nil {
		return nil
	}
	return &entity.Location{
		ID: row.ID, Name: row.Name, Description: deref(row.Description),
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	return r.t.create(ctx, catalogRow{ID: l.ID, Name: l.Name, Description: nullable(l.Description), CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt})
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	row, err := r.t.byID(ctx, id)
	return toLocation(row), err
}

func (r *LocationRepo) GetByName(ctx context.Context, name string) (*entity.Location, error) {
	row, err := r.t.byName(ctx, name)
	return toLocation(row), err
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	return r.t.update(ctx, catalogRow{ID: l.ID, Name: l.Name, Description: nullable(l.Description), UpdatedAt: l.UpdatedAt})
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Location, 0, len(rows))
	for i := range rows {
		out = append(out, toLocation(&rows[i]))
	}
	return out, nil
}

func (r *LocationRepo) Delete(ctx context.Context, id string) (bool, error) {
	return r.t.delete(ctx, id)
}
