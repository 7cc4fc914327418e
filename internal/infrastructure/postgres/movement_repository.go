package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// Recepciones y entregas viven en tablas separadas con las mismas columnas.
var movementTables = map[entity.MovementKind]string{
	entity.MovementReceipt:  "receipts",
	entity.MovementDelivery: "deliveries",
}

var movementColumns = []string{
	"id", "item_id", "code", "description", "unit", "quantity",
	"counterparty", "notes", "date", "synthetic",
}

type movementRow struct {
	ID           string          `db:"id"`
	ItemID       *string         `db:"item_id"`
	Code         string          `db:"code"`
	Description  string          `db:"description"`
	Unit         string          `db:"unit"`
	Quantity     decimal.Decimal `db:"quantity"`
	Counterparty string          `db:"counterparty"`
	Notes        *string         `db:"notes"`
	Date         time.Time       `db:"date"`
	Synthetic    bool            `db:"synthetic"`
}

func (r movementRow) toEntity(kind entity.MovementKind) *entity.Movement {
	return &entity.Movement{
		ID:           r.ID,
		Kind:         kind,
		ItemID:       strings.TrimSpace(deref(r.ItemID)),
		Code:         r.Code,
		Description:  r.Description,
		Unit:         r.Unit,
		Quantity:     r.Quantity,
		Counterparty: r.Counterparty,
		Notes:        deref(r.Notes),
		Date:         r.Date,
		Synthetic:    r.Synthetic,
	}
}

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func tableFor(kind entity.MovementKind) (string, error) {
	table, ok := movementTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
	}
	return table, nil
}

// selectorCond traduce la regla de atribución: por referencia, o sin referencia y con el código.
func selectorCond(sel inventory.Selector) squirrel.Sqlizer {
	cond := squirrel.Or{}
	if sel.ItemID != "" {
		cond = append(cond, squirrel.Eq{"item_id": sel.ItemID})
	}
	if code := strings.TrimSpace(sel.LegacyCode); code != "" {
		cond = append(cond, squirrel.And{
			squirrel.Or{squirrel.Eq{"item_id": nil}, squirrel.Eq{"item_id": ""}},
			squirrel.Expr("upper(trim(code)) = upper(?)", code),
		})
	}
	return cond
}

// Insert persiste una recepción o entrega.
func (r *MovementRepo) Insert(ctx context.Context, m *entity.Movement) error {
	table, err := tableFor(m.Kind)
	if err != nil {
		return err
	}
	sql, args, err := psql.Insert(table).
		Columns(movementColumns...).
		Values(m.ID, nullable(m.ItemID), m.Code, m.Description, m.Unit, m.Quantity,
			m.Counterparty, nullable(m.Notes), m.Date, m.Synthetic).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", table, err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: movimiento %s", domain.ErrDuplicate, m.ID)
		case isCheckViolation(err):
			return domain.NewValidation("quantity", "la cantidad debe ser mayor que cero")
		}
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, kind entity.MovementKind, id string) (*entity.Movement, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	sql, args, err := psql.Select(movementColumns...).From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", table, err)
	}
	var row movementRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return row.toEntity(kind), nil
}

// Find lista por fecha ascendente y, a igual fecha, por orden de inserción.
func (r *MovementRepo) Find(ctx context.Context, kind entity.MovementKind, filter repository.MovementFilter) ([]*entity.Movement, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	if filter.Selector != nil && filter.Selector.Empty() {
		return []*entity.Movement{}, nil
	}
	q := psql.Select(movementColumns...).From(table).OrderBy("date", "seq")
	if filter.Selector != nil {
		q = q.Where(selectorCond(*filter.Selector))
	}
	if code := strings.TrimSpace(filter.Code); code != "" {
		q = q.Where(squirrel.Expr("upper(trim(code)) = upper(?)", code))
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.To})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find %s: %w", table, err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("find %s: %w", table, err)
	}
	list := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity(kind))
	}
	return list, nil
}

// Update reescribe item, identidad, cantidad y textos. Fecha y marca sintética no cambian.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) (*entity.Movement, error) {
	table, err := tableFor(m.Kind)
	if err != nil {
		return nil, err
	}
	sql, args, err := psql.Update(table).
		SetMap(map[string]any{
			"item_id":      nullable(m.ItemID),
			"code":         m.Code,
			"description":  m.Description,
			"unit":         m.Unit,
			"quantity":     m.Quantity,
			"counterparty": m.Counterparty,
			"notes":        nullable(m.Notes),
		}).
		Where(squirrel.Eq{"id": m.ID}).
		Suffix("RETURNING " + strings.Join(movementColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update %s: %w", table, err)
	}
	var row movementRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	return row.toEntity(m.Kind), nil
}

// Delete elimina un movimiento por ID.
func (r *MovementRepo) Delete(ctx context.Context, kind entity.MovementKind, id string) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	sql, args, err := psql.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete %s: %w", table, err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", table, err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ApplySnapshot ancla a itemID y reescribe la identidad de todas las filas que alcanza sel.
func (r *MovementRepo) ApplySnapshot(ctx context.Context, kind entity.MovementKind, sel inventory.Selector, itemID string, snap entity.Snapshot) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	if sel.Empty() {
		return 0, nil
	}
	sql, args, err := psql.Update(table).
		Set("item_id", itemID).
		Set("code", snap.Code).
		Set("description", snap.Description).
		Set("unit", snap.Unit).
		Where(selectorCond(sel)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build snapshot %s: %w", table, err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("apply snapshot %s: %w", table, err)
	}
	return cmd.RowsAffected(), nil
}

// DeleteMatching elimina todas las filas que alcanza sel.
func (r *MovementRepo) DeleteMatching(ctx context.Context, kind entity.MovementKind, sel inventory.Selector) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	if sel.Empty() {
		return 0, nil
	}
	sql, args, err := psql.Delete(table).Where(selectorCond(sel)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build cascade %s: %w", table, err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("cascade %s: %w", table, err)
	}
	return cmd.RowsAffected(), nil
}
