package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func setup(t *testing.T) (string, string) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "railway.db")

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, stmt := range []string{
		"CREATE TABLE Station (StationID INTEGER PRIMARY KEY, Name TEXT, City TEXT)",
		"INSERT INTO Station VALUES (1, 'Central', 'Delhi')",
		"INSERT INTO Station VALUES (2, 'North Gate', 'Mumbai')",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}

	configPath := filepath.Join(dir, "rdbadmin.yaml")
	config := "database:\n  driver: sqlite3\n  database: " + dbPath + "\n" +
		"engine:\n  tables: [Station, Ticket]\n" +
		"logger:\n  level: error\n" +
		"metricsFile: " + filepath.Join(dir, "rdbadmin.prom") + "\n"
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, configPath
}

func runCLI(environ []string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, environ, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	Convey("命令行", t, func() {
		dir, configPath := setup(t)
		login := []string{"-c", configPath, "-u", "admin", "-p", "admin"}

		Convey("登录失败", func() {
			code, _, stderr := runCLI(nil, "-c", configPath, "-u", "admin", "-p", "nope", "tables")
			So(code, ShouldEqual, 3)
			So(stderr, ShouldContainSubstring, "invalid credentials")
		})

		Convey("环境变量提供登录信息", func() {
			code, stdout, _ := runCLI([]string{"RDBADMIN_LOGIN_USERNAME=admin", "RDBADMIN_LOGIN_PASSWORD=admin"}, "-c", configPath, "tables")
			So(code, ShouldEqual, 0)
			So(stdout, ShouldEqual, "Station\nTicket\n")
		})

		Convey("show 和 search", func() {
			code, stdout, _ := runCLI(nil, append(login, "-t", "Station", "show")...)
			So(code, ShouldEqual, 0)
			So(stdout, ShouldContainSubstring, "North Gate")
			So(stdout, ShouldEndWith, "(2 rows)\n")

			code, stdout, _ = runCLI(nil, append(login, "-t", "Station", "--column", "City", "--value", "del", "search")...)
			So(code, ShouldEqual, 0)
			So(stdout, ShouldContainSubstring, "Central")
			So(stdout, ShouldNotContainSubstring, "Mumbai")
		})

		Convey("插入、更新、删除", func() {
			code, stdout, _ := runCLI(nil, append(login, "-t", "Station", "-f", "3", "-f", "Harbour, East", "-f", "Chennai", "insert")...)
			So(code, ShouldEqual, 0)
			So(stdout, ShouldEqual, "Insert successful\n")

			code, stdout, _ = runCLI(nil, append(login, "-t", "Station", "-f", "3", "-f", "Harbour", "-f", "Chennai", "update")...)
			So(code, ShouldEqual, 0)
			So(stdout, ShouldEqual, "Update successful\n")

			code, stdout, _ = runCLI(nil, append(login, "-t", "Station", "-k", "3", "get")...)
			So(code, ShouldEqual, 0)
			So(stdout, ShouldContainSubstring, "Harbour")
			So(stdout, ShouldEndWith, "(1 rows)\n")

			code, stdout, _ = runCLI(nil, append(login, "-t", "Station", "-k", "3", "delete")...)
			So(code, ShouldEqual, 0)
			So(stdout, ShouldEqual, "Record deleted from Station\n")

			code, _, stderr := runCLI(nil, append(login, "-t", "Station", "delete")...)
			So(code, ShouldEqual, 1)
			So(stderr, ShouldContainSubstring, "no row selected")
		})

		Convey("透传查询只允许 SELECT", func() {
			code, _, stderr := runCLI(nil, append(login, "-t", "Station", "--sql", "DELETE FROM Station", "sql")...)
			So(code, ShouldEqual, 1)
			So(stderr, ShouldContainSubstring, "unauthorized query")

			code, stdout, _ := runCLI(nil, append(login, "-t", "Station", "--sql", "select count(*) as n from Station", "sql")...)
			So(code, ShouldEqual, 0)
			So(stdout, ShouldContainSubstring, "(1 rows)")
		})

		Convey("导出补全扩展名并写指标文件", func() {
			out := filepath.Join(dir, "stations")
			code, stdout, _ := runCLI(nil, append(login, "-t", "Station", "--format", "csv", "-o", out, "export")...)
			So(code, ShouldEqual, 0)
			So(stdout, ShouldContainSubstring, "Exported 2 rows")

			content, err := os.ReadFile(out + ".csv")
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "StationID,Name,City\n1,Central,Delhi\n2,North Gate,Mumbai\n")

			metrics, err := os.ReadFile(filepath.Join(dir, "rdbadmin.prom"))
			So(err, ShouldBeNil)
			So(string(metrics), ShouldContainSubstring, `rdbadmin_operations_total{operation="export",status="success",table="Station"} 1`)
		})

		Convey("未知表和未知操作", func() {
			code, _, stderr := runCLI(nil, append(login, "-t", "Train", "show")...)
			So(code, ShouldEqual, 1)
			So(stderr, ShouldContainSubstring, "schema error")

			code, _, _ = runCLI(nil, append(login, "-t", "Station", "truncate")...)
			So(code, ShouldEqual, 1)
		})

		Convey("参数错误", func() {
			code, _, _ := runCLI(nil, login...)
			So(code, ShouldEqual, 2)

			code, _, _ = runCLI(nil, "--no-such-flag")
			So(code, ShouldEqual, 2)
		})

		Convey("配置帮助", func() {
			code, stdout, _ := runCLI(nil, "--help-config")
			So(code, ShouldEqual, 0)
			So(stdout, ShouldContainSubstring, "database.driver")
			So(stdout, ShouldContainSubstring, "RDBADMIN_DATABASE_PASSWORD")
			So(stdout, ShouldContainSubstring, "(default: railway_mgmt)")
		})
	})
}
