package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDatabaseOptions struct {
	Driver         string        `cfg:"driver" def:"mysql"`
	Host           string        `cfg:"host" def:"localhost"`
	Port           int           `cfg:"port" def:"3306"`
	MaxConns       int           `cfg:"maxConns"`
	LogQueries     bool          `cfg:"logQueries" def:"true"`
	ConnectTimeout time.Duration `cfg:"connectTimeout" def:"5s"`
}

type testOptions struct {
	Tables   []string            `cfg:"tables" def:"Station,Train,Route"`
	Database testDatabaseOptions `cfg:"database"`
	Extra    *testDatabaseOptions `cfg:"extra"`
	Labels   map[string]string   `cfg:"labels"`
	Ignored  string              `cfg:"-"`
}

func TestMapStorage_ConvertTo_Defaults(t *testing.T) {
	var options testOptions
	require.NoError(t, NewMapStorage(nil).ConvertTo(&options))

	assert.Equal(t, []string{"Station", "Train", "Route"}, options.Tables)
	assert.Equal(t, "mysql", options.Database.Driver)
	assert.Equal(t, "localhost", options.Database.Host)
	assert.Equal(t, 3306, options.Database.Port)
	assert.True(t, options.Database.LogQueries)
	assert.Equal(t, 5*time.Second, options.Database.ConnectTimeout)
	assert.Nil(t, options.Extra)
}

func TestMapStorage_ConvertTo_Override(t *testing.T) {
	data := map[string]any{
		"tables": []any{"Ticket"},
		"database": map[string]any{
			"driver":         "sqlite3",
			"port":           "5432",
			"maxconns":       float64(4),
			"logQueries":     false,
			"connectTimeout": "1m",
		},
		"extra":   map[string]any{"host": "replica"},
		"labels":  map[string]any{"env": "test"},
		"Ignored": "nope",
	}

	var options testOptions
	require.NoError(t, NewMapStorage(data).ConvertTo(&options))

	assert.Equal(t, []string{"Ticket"}, options.Tables)
	assert.Equal(t, "sqlite3", options.Database.Driver)
	assert.Equal(t, 5432, options.Database.Port)
	assert.Equal(t, 4, options.Database.MaxConns)
	assert.False(t, options.Database.LogQueries)
	assert.Equal(t, time.Minute, options.Database.ConnectTimeout)
	require.NotNil(t, options.Extra)
	assert.Equal(t, "replica", options.Extra.Host)
	assert.Equal(t, 3306, options.Extra.Port)
	assert.Equal(t, map[string]string{"env": "test"}, options.Labels)
	assert.Empty(t, options.Ignored)
}

func TestMapStorage_ConvertTo_CommaSeparatedList(t *testing.T) {
	var options testOptions
	require.NoError(t, NewMapStorage(map[string]any{"tables": "Passenger, Payment"}).ConvertTo(&options))
	assert.Equal(t, []string{"Passenger", "Payment"}, options.Tables)
}

func TestMapStorage_ConvertTo_InvalidValue(t *testing.T) {
	var options testOptions
	err := NewMapStorage(map[string]any{"database": map[string]any{"port": "abc"}}).ConvertTo(&options)
	assert.Error(t, err)

	assert.Error(t, NewMapStorage(nil).ConvertTo(options))
}

func TestMapStorage_Sub(t *testing.T) {
	s := NewMapStorage(map[string]any{
		"database": map[string]any{
			"hosts": []any{"a", "b"},
		},
	})

	var host string
	require.NoError(t, s.Sub("database.hosts[1]").ConvertTo(&host))
	assert.Equal(t, "b", host)

	assert.Nil(t, s.Sub("database.missing").(*MapStorage).Data())
	assert.Equal(t, s, s.Sub(""))
}

func TestMerge(t *testing.T) {
	base := map[string]any{
		"database": map[string]any{"host": "localhost", "maxConns": 1},
		"tables":   []any{"Station"},
	}
	overlay := map[string]any{
		"DATABASE": map[string]any{"MAXCONNS": "8", "password": "secret"},
	}

	merged := Merge(base, overlay)

	db := merged["database"].(map[string]any)
	assert.Equal(t, "localhost", db["host"])
	assert.Equal(t, "8", db["maxConns"])
	assert.Equal(t, "secret", db["password"])
	assert.Equal(t, []any{"Station"}, merged["tables"])
	assert.Equal(t, 1, base["database"].(map[string]any)["maxConns"])
}
