package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/hatlonely/rdbadmin/auth"
	"github.com/hatlonely/rdbadmin/cfg"
	"github.com/hatlonely/rdbadmin/export"
	"github.com/hatlonely/rdbadmin/log/logger"
	"github.com/hatlonely/rdbadmin/rdb"
	"github.com/hatlonely/rdbadmin/rdb/conn"
	"github.com/hatlonely/rdbadmin/rdb/crud"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
)

const envPrefix = "RDBADMIN_"

// Options 命令行配置，优先级：默认值 < 配置文件 < 环境变量
type Options struct {
	Database      conn.Options                  `cfg:"database"`
	Engine        crud.EngineOptions            `cfg:"engine"`
	Admin         auth.StaticCheckerOptions     `cfg:"admin"`
	Observability crud.ObservableServiceOptions `cfg:"observability"`
	Logger        logger.SLogOptions            `cfg:"logger"`

	// 非空时每次执行后把指标写入该文件，供 node_exporter textfile 采集
	MetricsFile string `cfg:"metricsFile"`
}

type flags struct {
	config     string
	username   string
	password   string
	table      string
	column     string
	value      string
	key        string
	sql        string
	format     string
	output     string
	fields     []string
	helpConfig bool
}

const usage = `usage: rdbadmin [flags] <action>

actions:
  tables    list accessible tables
  columns   list columns of --table
  show      show all rows of --table
  search    rows of --table where --column contains --value
  get       row of --table whose first column equals --key
  insert    insert --field values, one per column
  update    update the row keyed by the first --field
  delete    delete the row keyed by --key
  sql       run a read-only --sql query
  export    export --table to --output as --format (csv, xlsx)

flags:
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, environ []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rdbadmin", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var f flags
	fs.StringVarP(&f.config, "config", "c", "", "path to config file (yaml, json, toml, ini)")
	fs.StringVarP(&f.username, "username", "u", "", "admin username, falls back to RDBADMIN_LOGIN_USERNAME")
	fs.StringVarP(&f.password, "password", "p", "", "admin password, falls back to RDBADMIN_LOGIN_PASSWORD")
	fs.StringVarP(&f.table, "table", "t", "", "table name")
	fs.StringVar(&f.column, "column", "", "search column")
	fs.StringVar(&f.value, "value", "", "search value")
	fs.StringVarP(&f.key, "key", "k", "", "primary key value")
	fs.StringVar(&f.sql, "sql", "", "read-only query")
	fs.StringVar(&f.format, "format", export.FormatCSV, "export format: csv or xlsx")
	fs.StringVarP(&f.output, "output", "o", "", "export file path, extension added when missing")
	fs.StringArrayVarP(&f.fields, "field", "f", nil, "column value for insert/update, repeat once per column in order")
	fs.BoolVar(&f.helpConfig, "help-config", false, "print config keys and environment variables")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if f.helpConfig {
		fmt.Fprint(stdout, cfg.GenerateHelp(&Options{}, envPrefix))
		return 0
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	var options Options
	if err := cfg.Load(&cfg.LoadOptions{File: f.config, EnvPrefix: envPrefix, Environ: environ}, &options); err != nil {
		fmt.Fprintln(stderr, "failed to load config:", err)
		return 1
	}

	l, err := logger.NewSLogWithOptions(&options.Logger)
	if err != nil {
		fmt.Fprintln(stderr, "failed to create logger:", err)
		return 1
	}
	defer l.Close()

	checker, err := auth.NewStaticCheckerWithOptions(&options.Admin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	username, password := f.username, f.password
	if username == "" {
		username = lookupEnv(environ, envPrefix+"LOGIN_USERNAME")
	}
	if password == "" {
		password = lookupEnv(environ, envPrefix+"LOGIN_PASSWORD")
	}
	if err := checker.Check(username, password); err != nil {
		l.Warn("login rejected", "username", username)
		fmt.Fprintln(stderr, "login failed:", err)
		return 3
	}

	registry := prometheus.NewRegistry()
	service, err := newService(&options, l, registry)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	code := execute(ctx, service, &f, fs.Arg(0), stdout, stderr)

	if options.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(options.MetricsFile, registry); err != nil {
			l.Warn("failed to write metrics", "file", options.MetricsFile, "error", err)
		}
	}
	return code
}

func newService(options *Options, l logger.Logger, registerer prometheus.Registerer) (crud.Service, error) {
	provider, err := conn.NewProviderWithOptions(&options.Database, l)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create connection provider")
	}

	engine, err := crud.NewEngineWithOptions(&options.Engine, provider)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create engine")
	}

	return crud.NewObservableServiceWithOptions(engine, &options.Observability, l, registerer)
}

func execute(ctx context.Context, service crud.Service, f *flags, action string, stdout, stderr io.Writer) int {
	if action == "tables" {
		for _, name := range service.Tables() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}

	req := &crud.Request{
		Action: rdb.Action(action),
		Table:  f.table,
		Column: f.column,
		Value:  f.value,
		SQL:    f.sql,
		Format: f.format,
		Path:   f.output,
	}
	if f.key != "" {
		req.Key = f.key
	}
	if len(f.fields) > 0 {
		req.Values = make([]any, len(f.fields))
		for i, v := range f.fields {
			req.Values[i] = v
		}
	}
	if req.Action == rdb.ActionExport && req.Path != "" {
		req.Path = export.WithDefaultExtension(req.Path, req.Format)
	}

	resp, err := service.Execute(ctx, req)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	switch {
	case resp.Outcome != nil:
		fmt.Fprintln(stdout, resp.Outcome.Message)
	case resp.Columns != nil:
		fmt.Fprintln(stdout, strings.Join(resp.Columns, "\n"))
	case resp.Result != nil:
		printResultSet(stdout, resp.Result)
	}
	return 0
}

// printResultSet 按列对齐输出，nil 显示为空
func printResultSet(w io.Writer, rs *rdb.ResultSet) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(rs.Columns, "\t"))
	for _, row := range rs.Strings() {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "(%d rows)\n", rs.Len())
}

func lookupEnv(environ []string, key string) string {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}
