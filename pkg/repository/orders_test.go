package repository

import (
	"database/sql"
	"testing"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// dryRunDB builds statements without executing them, so query shapes can
// be asserted without a live MySQL.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := sql.Open("mysql", "shop:shop@tcp(127.0.0.1:3306)/naturehug?parseTime=True")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

// The packed flag read during cancellation decides whether stock is
// restored, so the order row must be locked for the rest of the
// transaction. Without the lock a concurrent packing commit between the
// read and the status update would deduct stock that cancellation never
// restores.
func TestCancelScopeLocksOrderRow(t *testing.T) {
	db := dryRunDB(t)

	var order models.Order
	stmt := cancelScope(db, "ord-1").Find(&order).Statement

	q := stmt.SQL.String()
	assert.Contains(t, q, "FOR UPDATE")
	assert.Contains(t, q, "id = ?")
	assert.Equal(t, []interface{}{"ord-1"}, stmt.Vars)
}
