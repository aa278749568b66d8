package schema

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

func newIntrospector(t *testing.T, ddl ...string) *Introspector {
	path := filepath.Join(t.TempDir(), "railway.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}

	p, err := conn.NewProviderWithOptions(&conn.Options{Driver: conn.DriverSQLite3, Database: path}, logger.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	return NewIntrospector(p, query.NewBuilder(p.Driver()))
}

func TestColumnsOf(t *testing.T) {
	Convey("读取表结构", t, func() {
		i := newIntrospector(t,
			"CREATE TABLE Station (StationID INTEGER PRIMARY KEY, Name TEXT, City TEXT)",
			"CREATE TABLE Ticket (TicketID INTEGER PRIMARY KEY, PassengerID INTEGER, Price REAL)",
			"INSERT INTO Ticket VALUES (1, 1, 99.5)",
		)
		tables, err := rdb.NewTableSet(rdb.DefaultTables...)
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("空表也能读到列", func() {
			station, _ := tables.Handle("Station")
			cols, err := i.ColumnsOf(ctx, station)
			So(err, ShouldBeNil)
			So(cols, ShouldResemble, rdb.ColumnSchema{"StationID", "Name", "City"})
			So(cols.Key(), ShouldEqual, "StationID")
		})

		Convey("有数据的表", func() {
			ticket, _ := tables.Handle("Ticket")
			cols, err := i.ColumnsOf(ctx, ticket)
			So(err, ShouldBeNil)
			So(cols, ShouldResemble, rdb.ColumnSchema{"TicketID", "PassengerID", "Price"})
		})

		Convey("允许列表中但数据库里不存在的表", func() {
			payment, _ := tables.Handle("Payment")
			_, err := i.ColumnsOf(ctx, payment)
			So(errors.Is(err, rdb.ErrSchema), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "no such table")
		})

		Convey("未校验的句柄", func() {
			_, err := i.ColumnsOf(ctx, rdb.TableHandle{})
			So(errors.Is(err, rdb.ErrSchema), ShouldBeTrue)
		})
	})
}
