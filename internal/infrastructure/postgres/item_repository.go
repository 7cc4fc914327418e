package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemsTable = "items"

var itemColumns = []string{
	"id", "category_id", "location_id", "code", "name", "description",
	"unit", "stock", "location_name", "created_at", "updated_at",
}

type itemRow struct {
	ID           string          `db:"id"`
	CategoryID   string          `db:"category_id"`
	LocationID   string          `db:"location_id"`
	Code         string          `db:"code"`
	Name         string          `db:"name"`
	Description  string          `db:"description"`
	Unit         string          `db:"unit"`
	Stock        decimal.Decimal `db:"stock"`
	LocationName string          `db:"location_name"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r itemRow) toEntity() *entity.Item {
	return &entity.Item{
		ID:          r.ID,
		CategoryID:  r.CategoryID,
		LocationID:  r.LocationID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Unit:        r.Unit,
		Stock:       r.Stock,
		Location:    r.LocationName,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para items. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo item.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	sql, args, err := psql.Insert(itemsTable).
		Columns(itemColumns...).
		Values(item.ID, item.CategoryID, item.LocationID, item.Code, item.Name, item.Description,
			item.Unit, item.Stock, item.Location, item.CreatedAt, item.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert item: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, item.Code)
		case isCheckViolation(err):
			return domain.NewValidation("stock", "el stock no puede ser negativo")
		case isForeignKeyViolation(err):
			return domain.NewValidation("category_id", "categoría o ubicación inexistente")
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*entity.Item, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select item: %w", err)
	}
	var row itemRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return row.toEntity(), nil
}

// GetByID obtiene un item por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, psql.Select(itemColumns...).From(itemsTable).Where(squirrel.Eq{"id": id}))
}

// GetByCode obtiene un item por código sin distinguir mayúsculas.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, psql.Select(itemColumns...).From(itemsTable).
		Where(squirrel.Expr("upper(code) = upper(?)", strings.TrimSpace(code))))
}

// GetForUpdate lee y bloquea la fila hasta el fin de la transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, psql.Select(itemColumns...).From(itemsTable).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE"))
}

// List lista los items por nombre, ubicación y descripción.
func (r *ItemRepo) List(ctx context.Context) ([]*entity.Item, error) {
	sql, args, err := psql.Select(itemColumns...).From(itemsTable).
		OrderBy("name", "location_name", "description", "code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}
	var rows []itemRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	list := make([]*entity.Item, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// Update reemplaza los campos editables y devuelve la fila resultante.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	sql, args, err := psql.Update(itemsTable).
		SetMap(map[string]any{
			"category_id":   item.CategoryID,
			"location_id":   item.LocationID,
			"code":          item.Code,
			"name":          item.Name,
			"description":   item.Description,
			"unit":          item.Unit,
			"stock":         item.Stock,
			"location_name": item.Location,
			"updated_at":    item.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": item.ID}).
		Suffix("RETURNING " + strings.Join(itemColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update item: %w", err)
	}
	var row itemRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		switch {
		case pgxscan.NotFound(err):
			return nil, nil
		case isUniqueViolation(err):
			return nil, fmt.Errorf("%w: código %s", domain.ErrDuplicate, item.Code)
		case isCheckViolation(err):
			return nil, domain.NewValidation("stock", "el stock no puede ser negativo")
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return row.toEntity(), nil
}

// IncrementStock suma delta al stock en una sola sentencia. El CHECK (stock >= 0) de la tabla
// rechaza cualquier resultado negativo aunque el llamador no haya bloqueado la fila.
func (r *ItemRepo) IncrementStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	sql, args, err := psql.Update(itemsTable).
		Set("stock", squirrel.Expr("stock + ?", delta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING stock").
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build increment stock: %w", err)
	}
	var stock decimal.Decimal
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&stock); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return decimal.Zero, domain.NewNotFound("item", id)
		case isCheckViolation(err):
			return decimal.Zero, &domain.InsufficientStockError{ItemID: id, Requested: delta.Neg()}
		}
		return decimal.Zero, fmt.Errorf("increment stock: %w", err)
	}
	return stock, nil
}

// Delete elimina un item por ID.
func (r *ItemRepo) Delete(ctx context.Context, id string) (bool, error) {
	sql, args, err := psql.Delete(itemsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete item: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ItemRepo) exists(ctx context.Context, column, value string) (bool, error) {
	sql, args, err := psql.Select("1").From(itemsTable).
		Where(squirrel.Eq{column: value}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}
	var ok bool
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("items by %s: %w", column, err)
	}
	return ok, nil
}

func (r *ItemRepo) ExistsByCategory(ctx context.Context, categoryID string) (bool, error) {
	return r.exists(ctx, "category_id", categoryID)
}

func (r *ItemRepo) ExistsByLocation(ctx context.Context, locationID string) (bool, error) {
	return r.exists(ctx, "location_id", locationID)
}

func (r *ItemRepo) rename(ctx context.Context, column, value, target, name string) (int64, error) {
	sql, args, err := psql.Update(itemsTable).
		Set(target, name).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{column: value}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build rename: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("rename %s on items: %w", target, err)
	}
	return cmd.RowsAffected(), nil
}

// RenameCategory copia el nombre nuevo de la categoría en sus items.
func (r *ItemRepo) RenameCategory(ctx context.Context, categoryID, name string) (int64, error) {
	return r.rename(ctx, "category_id", categoryID, "name", name)
}

// RenameLocation copia el nombre nuevo de la ubicación en sus items.
func (r *ItemRepo) RenameLocation(ctx context.Context, locationID, name string) (int64, error) {
	return r.rename(ctx, "location_id", locationID, "location_name", name)
}
