package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUsesDollarPlaceholders(t *testing.T) {
	query, args, err := Update("bookings").
		Set("has_arrived", true).
		Where(squirrel.Eq{"id": int64(7)}).
		Where(squirrel.Eq{"has_arrived": false}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE bookings SET has_arrived = $1 WHERE id = $2 AND has_arrived = $3", query)
	assert.Equal(t, []interface{}{true, int64(7), false}, args)
}

func TestSelectUsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id", "slot_number").
		From("bookings").
		Where(squirrel.Eq{"company_id": int64(3)}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, slot_number FROM bookings WHERE company_id = $1", query)
	assert.Equal(t, []interface{}{int64(3)}, args)
}
