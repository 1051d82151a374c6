// Package sqlgw implements gateway.Gateway on top of gorm.
package sqlgw

import (
	"context"
	"reflect"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/colearnhub/colearnhub/internal/db/models"
	"github.com/colearnhub/colearnhub/internal/gateway"
)

// likeEscape is the escape character of ContainsFold patterns.
const likeEscape = "!"

// Gateway runs gateway calls through a gorm connection.
type Gateway struct {
	db     *gorm.DB
	fold   string
	models map[gateway.Table]func() any
}

// New returns a Gateway serving the tables of models.All.
func New(db *gorm.DB) *Gateway {
	g := &Gateway{
		db:     db,
		fold:   foldFor(db.Dialector.Name()),
		models: map[gateway.Table]func() any{},
	}

	for _, m := range models.All() {
		if t, ok := m.(schema.Tabler); ok {
			typ := reflect.TypeOf(m).Elem()
			g.models[gateway.Table(t.TableName())] = func() any { return reflect.New(typ).Interface() }
		}
	}

	return g
}

// Select implements gateway.Gateway.
func (g *Gateway) Select(ctx context.Context, table gateway.Table, dest any, q gateway.Query) error {
	tx := g.db.WithContext(ctx).Table(string(table))

	exprs, err := g.build(q.Filters)
	if err != nil {
		return gateway.NewError(gateway.OpSelect, table, gateway.ErrInvalidRequest, err)
	}

	if len(exprs) > 0 {
		tx = tx.Clauses(clause.Where{Exprs: exprs})
	}

	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	if err := tx.Find(dest).Error; err != nil {
		return translate(gateway.OpSelect, table, err)
	}

	return nil
}

// Insert implements gateway.Gateway.
func (g *Gateway) Insert(ctx context.Context, table gateway.Table, rows any) error {
	if err := g.db.WithContext(ctx).Table(string(table)).Create(rows).Error; err != nil {
		return translate(gateway.OpInsert, table, err)
	}

	return nil
}

// Update implements gateway.Gateway.
func (g *Gateway) Update(ctx context.Context, table gateway.Table, patch gateway.Patch,
	filters ...gateway.Filter,
) (int64, error) {
	tx, err := g.scoped(ctx, gateway.OpUpdate, table, filters)
	if err != nil {
		return 0, err
	}

	res := tx.Updates(map[string]any(patch))
	if res.Error != nil {
		return 0, translate(gateway.OpUpdate, table, res.Error)
	}

	return res.RowsAffected, nil
}

// Delete implements gateway.Gateway.
func (g *Gateway) Delete(ctx context.Context, table gateway.Table, filters ...gateway.Filter) (int64, error) {
	model, ok := g.models[table]
	if !ok {
		return 0, gateway.NewError(gateway.OpDelete, table, gateway.ErrNotFound, nil)
	}

	tx, err := g.scoped(ctx, gateway.OpDelete, table, filters)
	if err != nil {
		return 0, err
	}

	res := tx.Delete(model())
	if res.Error != nil {
		return 0, translate(gateway.OpDelete, table, res.Error)
	}

	return res.RowsAffected, nil
}

func (g *Gateway) scoped(ctx context.Context, op gateway.Op, table gateway.Table,
	filters []gateway.Filter,
) (*gorm.DB, error) {
	if err := gateway.RequireFilters(op, table, filters); err != nil {
		return nil, err
	}

	exprs, err := g.build(filters)
	if err != nil {
		return nil, gateway.NewError(op, table, gateway.ErrInvalidRequest, err)
	}

	return g.db.WithContext(ctx).Table(string(table)).Clauses(clause.Where{Exprs: exprs}), nil
}

func (g *Gateway) build(filters []gateway.Filter) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(filters))

	for _, f := range filters {
		e, err := g.expression(f)
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, e)
	}

	return exprs, nil
}

func (g *Gateway) expression(f gateway.Filter) (clause.Expression, error) {
	col := clause.Column{Name: f.Field}

	switch f.Kind {
	case gateway.KindEq:
		return clause.Eq{Column: col, Value: f.Value}, nil
	case gateway.KindIsNull:
		return clause.Eq{Column: col, Value: nil}, nil
	case gateway.KindIn:
		values := make([]any, len(f.Values))
		for i, v := range f.Values {
			values[i] = v
		}

		return clause.IN{Column: col, Values: values}, nil
	case gateway.KindContainsFold:
		s, _ := f.Value.(string)

		return clause.Expr{
			SQL:  g.fold + "(?) LIKE " + g.fold + "(?) ESCAPE '" + likeEscape + "'",
			Vars: []any{col, "%" + escapeLike(s) + "%"},
		}, nil
	case gateway.KindOr:
		if len(f.Any) == 0 {
			return nil, errEmptyOr
		}

		alts, err := g.build(f.Any)
		if err != nil {
			return nil, err
		}

		return clause.Or(alts...), nil
	default:
		return nil, errUnknownFilter
	}
}

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}
