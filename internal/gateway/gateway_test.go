package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBuilders(t *testing.T) {
	q := Where(Eq("user_id", "u1"), IsNull("accept")).Order("joined_at", true).Take(5)

	require.Len(t, q.Filters, 2)
	assert.Equal(t, KindEq, q.Filters[0].Kind)
	assert.Equal(t, "u1", q.Filters[0].Value)
	assert.Equal(t, KindIsNull, q.Filters[1].Kind)
	assert.Equal(t, "joined_at", q.OrderBy)
	assert.True(t, q.Desc)
	assert.Equal(t, 5, q.Limit)

	or := Or(ContainsFold("username", "ab"), In("id", []string{"a", "b"}))
	assert.Equal(t, KindOr, or.Kind)
	require.Len(t, or.Any, 2)
	assert.Equal(t, KindContainsFold, or.Any[0].Kind)
	assert.Equal(t, []string{"a", "b"}, or.Any[1].Values)
	assert.Equal(t, "ilike", KindContainsFold.String())
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("duplicate key")
	err := fmt.Errorf("wrapped: %w", NewError(OpInsert, "Users", ErrConflict, cause))

	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrTransient)
	assert.Equal(t, ErrConflict, KindOf(err))
	assert.Equal(t, "conflict", KindLabel(err))
	assert.Contains(t, err.Error(), "gateway insert Users")

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, Table("Users"), gwErr.Table)

	assert.Nil(t, KindOf(nil))
	assert.Equal(t, "ok", KindLabel(nil))
	assert.Equal(t, ErrInternal, KindOf(errors.New("plain")))
	assert.Equal(t, ErrInternal, NewError(OpSelect, "Users", nil, nil).Kind)
}

func TestRequireFilters(t *testing.T) {
	require.ErrorIs(t, RequireFilters(OpDelete, "Groups", nil), ErrInvalidRequest)
	require.NoError(t, RequireFilters(OpDelete, "Groups", []Filter{Eq("id", "g1")}))
}

type stubGateway struct {
	err error
}

func (s stubGateway) Select(context.Context, Table, any, Query) error { return s.err }
func (s stubGateway) Insert(context.Context, Table, any) error        { return s.err }

func (s stubGateway) Update(context.Context, Table, Patch, ...Filter) (int64, error) {
	return 1, s.err
}

func (s stubGateway) Delete(context.Context, Table, ...Filter) (int64, error) {
	return 2, s.err
}

func TestInstrument(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	ctx := context.Background()

	ok := Instrument(stubGateway{}, reg)
	require.NoError(t, ok.Select(ctx, "Users", nil, Query{}))
	n, err := ok.Delete(ctx, "Groups", Eq("id", "g1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	broken := Instrument(stubGateway{err: NewError(OpInsert, "Users", ErrTransient, nil)}, prometheus.NewRegistry())
	require.ErrorIs(t, broken.Insert(ctx, "Users", nil), ErrTransient)

	calls, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, calls)

	assert.Equal(t, 2, testutil.CollectAndCount(ok.(*instrumented).calls))
	assert.InDelta(t, 1, testutil.ToFloat64(ok.(*instrumented).calls.WithLabelValues("Users", "select", "ok")), 0)
	assert.InDelta(t, 1,
		testutil.ToFloat64(broken.(*instrumented).calls.WithLabelValues("Users", "insert", "transient")), 0)
}

func TestWrap(t *testing.T) {
	errStore := errors.New("store failure")
	cause := NewError(OpInsert, "Groups", ErrConflict, errors.New("duplicate"))

	err := Wrap(errStore, "create group", cause)
	require.ErrorIs(t, err, errStore)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, ErrConflict, KindOf(err))
	assert.Equal(t, "create group: store failure: gateway insert Groups: conflict: duplicate", err.Error())

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, OpInsert, gwErr.Op)
}
