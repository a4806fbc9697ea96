package bd

import (
	"testing"

	"autoshop-system/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyListParams_FiltersSortsAndPaginates(t *testing.T) {
	filter := types.Filter{
		Filter:         map[string]interface{}{"status": "pending,in_progress", "unknown": "x"},
		Sort:           map[string]string{"intake_at": "desc"},
		Limit:          10,
		Offset:         20,
		WithPagination: true,
	}
	allowed := map[string]string{"status": "r.status", "intake_at": "r.intake_at"}

	query, args, err := ApplyListParams(Psql.Select("r.id").From("repair_tickets r"), filter, allowed).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT r.id FROM repair_tickets r WHERE r.status IN ($1,$2) ORDER BY r.intake_at DESC LIMIT 10 OFFSET 20", query)
	assert.Equal(t, []interface{}{"pending", "in_progress"}, args)
}

func TestApplySearch(t *testing.T) {
	query, args, err := ApplySearch(Psql.Select("id").From("customers"), " Ana ", "first_name", "phone").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM customers WHERE (first_name ILIKE $1 OR phone ILIKE $2)", query)
	assert.Equal(t, []interface{}{"%Ana%", "%Ana%"}, args)
}

func TestCountFilter_DropsSortAndPagination(t *testing.T) {
	f := CountFilter(types.Filter{Sort: map[string]string{"id": "asc"}, WithPagination: true, Limit: 5})
	assert.Nil(t, f.Sort)
	assert.False(t, f.WithPagination)
}
