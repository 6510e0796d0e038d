package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `s.id, s.user_id, s.employee_id, s.target_kind, s.category_id, s.subcategory_id,
	s.amount, s.commission_rate, s.commission, s.payment_type, s.tracking_number, s.description, s.created_at`

// Insert persiste venta y auditoría en una transacción (savepoint si q ya es una tx).
func (r *SaleRepo) Insert(ctx context.Context, sale *entity.Sale, audit *entity.Audit) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return storeErr("begin sale", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var subID *string
	if id := sale.SubCategoryID(); id != "" {
		subID = &id
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO sales (id, user_id, employee_id, target_kind, category_id, subcategory_id,
			amount, commission_rate, commission, payment_type, tracking_number, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		sale.ID, sale.UserID, sale.EmployeeID, string(sale.Target.Kind), sale.CategoryID, subID,
		sale.Amount, sale.CommissionRate, sale.Commission, sale.PaymentType,
		sale.TrackingNumber, sale.Description, sale.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Fail(domain.ErrNotFound, "sale_reference", sale.UserID)
		}
		return storeErr("insert sale", err)
	}
	if err := NewAuditRepository(tx).Append(ctx, audit); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit sale", err)
	}
	return nil
}

// GetByID obtiene una venta por ID. nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	row := r.q.QueryRow(ctx, `SELECT `+saleColumns+`, c.name, COALESCE(sc.name, '')
		FROM sales s
		JOIN categories c ON c.id = s.category_id
		LEFT JOIN subcategories sc ON sc.id = s.subcategory_id
		WHERE s.id = $1`, id)
	rec, err := scanSaleRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get sale", err)
	}
	return &rec.Sale, nil
}

// Query filtra el libro y resuelve nombres con JOIN. Más recientes primero.
func (r *SaleRepo) Query(ctx context.Context, f repository.SaleFilter) ([]repository.SaleRecord, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != "" {
		add("s.user_id = $%d", f.UserID)
	}
	if f.CategoryID != "" {
		add("s.category_id = $%d", f.CategoryID)
	}
	if f.SubCategoryID != "" {
		add("s.subcategory_id = $%d", f.SubCategoryID)
	}
	if !f.From.IsZero() {
		add("s.created_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("s.created_at < $%d", f.To)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(sc.name ILIKE $%d OR c.name ILIKE $%d OR s.description ILIKE $%d)", n, n, n))
	}

	query := `SELECT ` + saleColumns + `, c.name, COALESCE(sc.name, '')
		FROM sales s
		JOIN categories c ON c.id = s.category_id
		LEFT JOIN subcategories sc ON sc.id = s.subcategory_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY s.created_at DESC, s.id DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("query sales", err)
	}
	defer rows.Close()

	out := []repository.SaleRecord{}
	for rows.Next() {
		rec, err := scanSaleRecord(rows)
		if err != nil {
			return nil, storeErr("scan sale", err)
		}
		out = append(out, rec)
	}
	return out, storeErr("query sales", rows.Err())
}

func scanSaleRecord(row pgx.Row) (repository.SaleRecord, error) {
	var (
		rec   repository.SaleRecord
		kind  string
		subID *string
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.EmployeeID, &kind, &rec.CategoryID, &subID,
		&rec.Amount, &rec.CommissionRate, &rec.Commission, &rec.PaymentType,
		&rec.TrackingNumber, &rec.Description, &rec.CreatedAt,
		&rec.CategoryName, &rec.SubCategoryName,
	)
	if err != nil {
		return rec, err
	}
	if entity.TargetKind(kind) == entity.TargetSubCategory && subID != nil {
		rec.Target = entity.SubCategoryTarget(*subID)
	} else {
		rec.Target = entity.CategoryTarget(rec.CategoryID)
	}
	return rec, nil
}

// escapeLike escapa los comodines de LIKE para buscar el término literal.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
