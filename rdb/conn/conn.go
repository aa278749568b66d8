package conn

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"github.com/go-sql-driver/mysql"
	"github.com/hatlonely/rdbadmin/log"
	"github.com/hatlonely/rdbadmin/log/logger"
	"github.com/hatlonely/rdbadmin/rdb"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/qustavo/sqlhooks/v2"
)

// Provider 每次获取都打开一个新的数据库句柄，释放时关闭，不做连接池
type Provider struct {
	driver    string
	connector *connector
	logger    logger.Logger
}

type connector struct {
	dsn    string
	driver driver.Driver
}

func (c *connector) Connect(ctx context.Context) (driver.Conn, error) {
	return c.driver.Open(c.dsn)
}

func (c *connector) Driver() driver.Driver {
	return c.driver
}

func NewProviderWithOptions(options *Options, l logger.Logger) (*Provider, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}

	dsn, err := options.FormatDSN()
	if err != nil {
		return nil, err
	}

	var drv driver.Driver
	switch options.Driver {
	case DriverMySQL:
		drv = &mysql.MySQLDriver{}
	case DriverSQLite3:
		drv = &sqlite3.SQLiteDriver{}
	case DriverPostgres:
		drv = stdlib.GetDefaultDriver()
	default:
		return nil, errors.Errorf("unsupported driver: %s", options.Driver)
	}

	l = log.OrDefault(l).WithGroup("conn")
	if options.LogQueries {
		drv = sqlhooks.Wrap(drv, &queryHooks{logger: l})
	}

	return &Provider{
		driver:    options.Driver,
		connector: &connector{dsn: dsn, driver: drv},
		logger:    l,
	}, nil
}

// Driver 驱动名，用于选择占位符风格
func (p *Provider) Driver() string {
	return p.driver
}

// Conn 一次获取得到的连接
type Conn struct {
	db *sql.DB
}

func (c *Conn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

// WithTx 在事务中执行 fn，fn 返回错误或 panic 时回滚
func (c *Conn) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Acquire 打开并验证一个新连接，连接失败返回 ErrQueryExecution
func (p *Provider) Acquire(ctx context.Context) (*Conn, error) {
	db := sql.OpenDB(p.connector)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, rdb.WrapQueryExecution(err, "failed to connect to %s", p.driver)
	}
	return &Conn{db: db}, nil
}

// Release 关闭连接，可以重复调用
func (p *Provider) Release(c *Conn) error {
	if c == nil || c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		p.logger.Warn("failed to close connection", "error", err)
	}
	return err
}

// With 获取连接执行 fn，任何情况下都会释放连接
func (p *Provider) With(ctx context.Context, fn func(c *Conn) error) error {
	c, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(c)

	return fn(c)
}
