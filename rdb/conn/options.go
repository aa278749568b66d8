package conn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

const (
	DriverMySQL    = "mysql"
	DriverSQLite3  = "sqlite3"
	DriverPostgres = "postgres"
)

// Options 数据库连接配置，DSN 不为空时忽略其他连接参数
type Options struct {
	Driver         string        `cfg:"driver" def:"mysql" validate:"oneof=mysql sqlite3 postgres"`
	DSN            string        `cfg:"dsn" help:"overrides host/port/database/username/password"`
	Host           string        `cfg:"host" def:"localhost"`
	Port           int           `cfg:"port" def:"3306"`
	Database       string        `cfg:"database" def:"railway_mgmt" help:"database name, or file path for sqlite3"`
	Username       string        `cfg:"username" def:"root"`
	Password       string        `cfg:"password"`
	Charset        string        `cfg:"charset" def:"utf8mb4"`
	ConnectTimeout time.Duration `cfg:"connectTimeout" def:"5s"`
	LogQueries     bool          `cfg:"logQueries" def:"true" help:"log every statement at debug level"`
}

// FormatDSN 按驱动拼接连接串
func (o *Options) FormatDSN() (string, error) {
	if o.DSN != "" {
		return o.DSN, nil
	}

	switch o.Driver {
	case DriverMySQL:
		c := mysql.NewConfig()
		c.User = o.Username
		c.Passwd = o.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
		c.DBName = o.Database
		c.ParseTime = true
		c.Loc = time.Local
		c.Timeout = o.ConnectTimeout
		if o.Charset != "" {
			c.Params = map[string]string{"charset": o.Charset}
		}
		return c.FormatDSN(), nil
	case DriverSQLite3:
		if o.Database == "" {
			return "", errors.New("sqlite3 requires a database file")
		}
		return o.Database, nil
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
			Path:   "/" + o.Database,
		}
		if o.Username != "" {
			u.User = url.UserPassword(o.Username, o.Password)
		}
		if o.ConnectTimeout > 0 {
			q := url.Values{}
			q.Set("connect_timeout", fmt.Sprint(int(o.ConnectTimeout.Seconds())))
			u.RawQuery = q.Encode()
		}
		return u.String(), nil
	}
	return "", errors.Errorf("unsupported driver: %s", o.Driver)
}
