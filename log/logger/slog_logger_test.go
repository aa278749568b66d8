package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hatlonely/rdbadmin/refx"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSLog(t *testing.T) {
	Convey("text 格式", t, func() {
		var buf bytes.Buffer
		l, err := NewSLogWithWriter(&buf, &SLogOptions{Level: "info", Format: "text"})
		So(err, ShouldBeNil)

		l.Debug("hidden")
		l.Info("insert ok", "table", "Station")
		So(buf.String(), ShouldNotContainSubstring, "hidden")
		So(buf.String(), ShouldContainSubstring, "msg=\"insert ok\"")
		So(buf.String(), ShouldContainSubstring, "table=Station")
	})

	Convey("json 格式和附加字段", t, func() {
		var buf bytes.Buffer
		l, err := NewSLogWithWriter(&buf, &SLogOptions{
			Level:  "debug",
			Format: "json",
			Fields: map[string]any{"app": "rdbadmin"},
		})
		So(err, ShouldBeNil)

		l.With("op", "delete").WithGroup("req").DebugContext(context.Background(), "run", "table", "Ticket")

		var record map[string]any
		So(json.Unmarshal(buf.Bytes(), &record), ShouldBeNil)
		So(record["level"], ShouldEqual, "DEBUG")
		So(record["app"], ShouldEqual, "rdbadmin")
		So(record["op"], ShouldEqual, "delete")
		So(record["req"], ShouldResemble, map[string]any{"table": "Ticket"})
	})

	Convey("自定义时间格式", t, func() {
		var buf bytes.Buffer
		l, err := NewSLogWithWriter(&buf, &SLogOptions{Format: "json", TimeFormat: "2006-01-02"})
		So(err, ShouldBeNil)
		l.Warn("w")

		var record map[string]any
		So(json.Unmarshal(buf.Bytes(), &record), ShouldBeNil)
		So(len(record["time"].(string)), ShouldEqual, 10)
	})

	Convey("非法配置", t, func() {
		_, err := NewSLogWithWriter(&bytes.Buffer{}, &SLogOptions{Level: "trace"})
		So(err, ShouldNotBeNil)
		_, err = NewSLogWithWriter(&bytes.Buffer{}, &SLogOptions{Format: "xml"})
		So(err, ShouldNotBeNil)
		_, err = NewSLogWithOptions(nil)
		So(err, ShouldNotBeNil)
	})

	Convey("通过注册表输出到文件", t, func() {
		path := filepath.Join(t.TempDir(), "logs", "rdbadmin.log")
		l, err := NewSLogWithOptions(&SLogOptions{
			Level:  "error",
			Format: "text",
			Output: &refx.TypeOptions{
				Type:    "FileWriter",
				Options: map[string]any{"path": path},
			},
		})
		So(err, ShouldBeNil)

		l.Info("skipped")
		l.Error("query failed", "error", "no such table")
		So(l.Close(), ShouldBeNil)

		content, err := os.ReadFile(path)
		So(err, ShouldBeNil)
		So(string(content), ShouldNotContainSubstring, "skipped")
		So(string(content), ShouldContainSubstring, "no such table")
	})

	Convey("丢弃日志", t, func() {
		l := NewDiscard()
		l.Error("nothing")
		So(l.Close(), ShouldBeNil)
	})
}
