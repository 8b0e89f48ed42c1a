package database

import (
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigURLs(t *testing.T) {
	cfg := Config{User: "u", Password: "p", Host: "db", Port: "3307", Name: "appfolio"}
	assert.Equal(t, "u:p@tcp(db:3307)/appfolio?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true", cfg.DSN())
	assert.Equal(t, "mysql://u:p@tcp(db:3307)/appfolio?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true&multiStatements=true", cfg.MigrateURL())
}

func TestDSNReportsMatchedRows(t *testing.T) {
	parsed, err := mysqldriver.ParseDSN(Config{User: "u", Password: "p", Host: "db", Port: "3306", Name: "appfolio"}.DSN())
	require.NoError(t, err)
	assert.True(t, parsed.ClientFoundRows)
	assert.True(t, parsed.ParseTime)
}

func TestCloseNil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
