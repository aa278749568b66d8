package result

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/hatlonely/rdbadmin/log/logger"
	"github.com/hatlonely/rdbadmin/rdb"
	"github.com/hatlonely/rdbadmin/rdb/conn"
	"github.com/hatlonely/rdbadmin/rdb/query"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func newMaterializer(t *testing.T) *Materializer {
	path := filepath.Join(t.TempDir(), "railway.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, stmt := range []string{
		"CREATE TABLE Passenger (PassengerID INTEGER PRIMARY KEY, Name TEXT, Age INTEGER, Photo BLOB)",
		"INSERT INTO Passenger VALUES (1, 'Asha', 31, x'6869')",
		"INSERT INTO Passenger VALUES (2, 'Ravi', NULL, NULL)",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}

	p, err := conn.NewProviderWithOptions(&conn.Options{Driver: conn.DriverSQLite3, Database: path}, logger.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	return NewMaterializer(p)
}

func TestFetch(t *testing.T) {
	Convey("读取结果集", t, func() {
		m := newMaterializer(t)
		ctx := context.Background()

		Convey("列顺序和值", func() {
			rs, err := m.Fetch(ctx, query.Statement{SQL: "SELECT * FROM Passenger ORDER BY PassengerID"})
			So(err, ShouldBeNil)
			So(rs.Columns, ShouldResemble, rdb.ColumnSchema{"PassengerID", "Name", "Age", "Photo"})
			So(rs.Len(), ShouldEqual, 2)
			So(rs.Rows[0], ShouldResemble, rdb.RowRecord{int64(1), "Asha", int64(31), "hi"})
			So(rs.Rows[1], ShouldResemble, rdb.RowRecord{int64(2), "Ravi", nil, nil})
		})

		Convey("没有结果时返回空行和列", func() {
			rs, err := m.Fetch(ctx, query.Statement{SQL: "SELECT Name, Age FROM Passenger WHERE PassengerID = ?", Args: []any{99}})
			So(err, ShouldBeNil)
			So(rs.Columns, ShouldResemble, rdb.ColumnSchema{"Name", "Age"})
			So(rs.Len(), ShouldEqual, 0)
			So(rs.Rows, ShouldNotBeNil)
		})

		Convey("执行错误保留原始信息", func() {
			_, err := m.Fetch(ctx, query.Statement{SQL: "SELECT * FROM Nowhere"})
			So(errors.Is(err, rdb.ErrQueryExecution), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "query execution error: no such table: Nowhere")
		})
	})
}

func TestExec(t *testing.T) {
	Convey("执行写语句", t, func() {
		m := newMaterializer(t)
		ctx := context.Background()

		n, err := m.Exec(ctx, query.Statement{SQL: "UPDATE Passenger SET Age = ? WHERE PassengerID = ?", Args: []any{40, 2}})
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 1)

		rs, err := m.Fetch(ctx, query.Statement{SQL: "SELECT Age FROM Passenger WHERE PassengerID = 2"})
		So(err, ShouldBeNil)
		So(rs.Rows[0][0], ShouldEqual, int64(40))

		n, err = m.Exec(ctx, query.Statement{SQL: "DELETE FROM Passenger WHERE PassengerID = ?", Args: []any{99}})
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 0)

		_, err = m.Exec(ctx, query.Statement{SQL: "INSERT INTO Passenger VALUES (?, ?, ?, ?)", Args: []any{1, "Dup", 1, nil}})
		So(errors.Is(err, rdb.ErrQueryExecution), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "UNIQUE constraint failed")
	})
}
