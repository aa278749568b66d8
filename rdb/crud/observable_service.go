package crud

import (
	"context"
	"fmt"
	"time"

	"github.com/hatlonely/rdbadmin/log"
	"github.com/hatlonely/rdbadmin/log/logger"
	"github.com/hatlonely/rdbadmin/rdb"
	"github.com/hatlonely/rdbadmin/refx"
	"github.com/hatlonely/rdbadmin/uid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ObservableServiceOptions struct {
	// EnableMetrics 是否启用指标收集
	EnableMetrics bool `cfg:"enableMetrics" def:"true"`

	// EnableLogging 是否启用日志记录
	EnableLogging bool `cfg:"enableLogging" def:"true"`

	// EnableTracing 是否启用分布式追踪
	EnableTracing bool `cfg:"enableTracing" def:"false"`

	// Name 组件名称标识，用于所有观测维度
	// - Metrics: 作为指标名前缀
	// - Logging: 作为 component 字段值
	// - Tracing: 作为 tracer 名和 span 的 component 属性
	Name string `cfg:"name" def:"rdbadmin" validate:"required"`

	// OpID 操作 ID 生成器，为空时使用 UUID v4
	OpID *refx.TypeOptions `cfg:"opID"`
}

// ObservableMetrics 封装 prometheus 指标
type ObservableMetrics struct {
	operationCounter  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	activeOperations  *prometheus.GaugeVec
	resultRows        *prometheus.HistogramVec
}

// NewObservableMetrics 创建指标并注册到 registerer，registerer 为 nil 时使用默认 registry
func NewObservableMetrics(name string, registerer prometheus.Registerer) (*ObservableMetrics, error) {
	metrics := &ObservableMetrics{
		operationCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: name + "_operations_total",
				Help: "Total number of table operations",
			},
			[]string{"operation", "table", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_operation_duration_seconds",
				Help:    "Duration of table operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation"},
		),
		activeOperations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: name + "_active_operations",
				Help: "Number of active table operations",
			},
			[]string{"operation"},
		),
		resultRows: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_result_rows",
				Help:    "Rows returned or affected by table operations",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000},
			},
			[]string{"operation"},
		),
	}

	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		metrics.operationCounter,
		metrics.operationDuration,
		metrics.activeOperations,
		metrics.resultRows,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register metrics")
		}
	}

	return metrics, nil
}

// ObservableService 装饰器，为任何 Service 添加日志、指标和追踪
type ObservableService struct {
	service Service

	logger        logger.Logger
	metrics       *ObservableMetrics
	tracer        trace.Tracer
	opID          uid.Generator
	name          string
	enableMetrics bool
	enableLogging bool
	enableTracing bool
}

func NewObservableServiceWithOptions(service Service, options *ObservableServiceOptions, l logger.Logger, registerer prometheus.Registerer) (*ObservableService, error) {
	if service == nil {
		return nil, errors.New("service is nil")
	}
	if options == nil {
		return nil, errors.New("options is nil")
	}

	obs := &ObservableService{
		service:       service,
		name:          options.Name,
		enableMetrics: options.EnableMetrics,
		enableLogging: options.EnableLogging,
		enableTracing: options.EnableTracing,
	}

	opID, err := uid.NewGeneratorWithOptions(options.OpID)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create op id generator")
	}
	obs.opID = opID

	if options.EnableLogging {
		obs.logger = log.OrDefault(l).WithGroup("observableService")
	}

	if options.EnableMetrics {
		metrics, err := NewObservableMetrics(options.Name, registerer)
		if err != nil {
			return nil, err
		}
		obs.metrics = metrics
	}

	if options.EnableTracing {
		obs.tracer = otel.Tracer(fmt.Sprintf("crud.%s", options.Name))
	}

	return obs, nil
}

// errorStatus 指标的 status 标签，按错误类型区分
func errorStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, rdb.ErrSchema):
		return "schema_error"
	case errors.Is(err, rdb.ErrValidation):
		return "validation_error"
	case errors.Is(err, rdb.ErrUnauthorizedQuery):
		return "unauthorized"
	case errors.Is(err, rdb.ErrQueryExecution):
		return "query_error"
	case errors.Is(err, rdb.ErrExport):
		return "export_error"
	}
	return "error"
}

// observeOperation 统一的操作观测逻辑，fn 返回结果行数或影响行数
func (obs *ObservableService) observeOperation(ctx context.Context, operation, table string, fn func(context.Context) (int64, error)) error {
	start := time.Now()
	opID := obs.opID.Generate()

	var span trace.Span
	if obs.enableTracing && obs.tracer != nil {
		ctx, span = obs.tracer.Start(ctx, fmt.Sprintf("crud.%s", operation),
			trace.WithAttributes(
				attribute.String("component", obs.name),
				attribute.String("operation", operation),
				attribute.String("table", table),
				attribute.String("op_id", opID),
			),
		)
		defer span.End()
	}

	if obs.enableMetrics && obs.metrics != nil {
		obs.metrics.activeOperations.WithLabelValues(operation).Inc()
		defer obs.metrics.activeOperations.WithLabelValues(operation).Dec()
	}

	rows, err := fn(ctx)
	duration := time.Since(start)

	if obs.enableTracing && span != nil {
		span.SetAttributes(
			attribute.Int64("duration_ms", duration.Milliseconds()),
			attribute.Int64("rows", rows),
		)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	if obs.enableMetrics && obs.metrics != nil {
		obs.metrics.operationCounter.WithLabelValues(operation, table, errorStatus(err)).Inc()
		obs.metrics.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
		if err == nil {
			obs.metrics.resultRows.WithLabelValues(operation).Observe(float64(rows))
		}
	}

	if obs.enableLogging && obs.logger != nil {
		if err != nil {
			obs.logger.ErrorContext(ctx, "table operation failed",
				"component", obs.name,
				"operation", operation,
				"table", table,
				"op_id", opID,
				"duration_ms", duration.Milliseconds(),
				"error", err.Error(),
			)
		} else {
			obs.logger.InfoContext(ctx, "table operation completed",
				"component", obs.name,
				"operation", operation,
				"table", table,
				"op_id", opID,
				"rows", rows,
				"duration_ms", duration.Milliseconds(),
			)
		}
	}

	return err
}

func resultRows(rs *rdb.ResultSet) int64 {
	if rs == nil {
		return 0
	}
	return int64(rs.Len())
}

func outcomeRows(o *rdb.Outcome) int64 {
	if o == nil {
		return 0
	}
	return o.RowsAffected
}

func (obs *ObservableService) Tables() []string {
	return obs.service.Tables()
}

func (obs *ObservableService) Columns(ctx context.Context, table string) (rdb.ColumnSchema, error) {
	var columns rdb.ColumnSchema
	err := obs.observeOperation(ctx, string(rdb.ActionColumns), table, func(ctx context.Context) (int64, error) {
		var err error
		columns, err = obs.service.Columns(ctx, table)
		return int64(len(columns)), err
	})
	return columns, err
}

func (obs *ObservableService) Show(ctx context.Context, table string) (*rdb.ResultSet, error) {
	var rs *rdb.ResultSet
	err := obs.observeOperation(ctx, string(rdb.ActionShow), table, func(ctx context.Context) (int64, error) {
		var err error
		rs, err = obs.service.Show(ctx, table)
		return resultRows(rs), err
	})
	return rs, err
}

func (obs *ObservableService) Search(ctx context.Context, table, column, value string) (*rdb.ResultSet, error) {
	var rs *rdb.ResultSet
	err := obs.observeOperation(ctx, string(rdb.ActionSearch), table, func(ctx context.Context) (int64, error) {
		var err error
		rs, err = obs.service.Search(ctx, table, column, value)
		return resultRows(rs), err
	})
	return rs, err
}

func (obs *ObservableService) Get(ctx context.Context, table string, key any) (*rdb.ResultSet, error) {
	var rs *rdb.ResultSet
	err := obs.observeOperation(ctx, string(rdb.ActionGet), table, func(ctx context.Context) (int64, error) {
		var err error
		rs, err = obs.service.Get(ctx, table, key)
		return resultRows(rs), err
	})
	return rs, err
}

func (obs *ObservableService) Insert(ctx context.Context, table string, values []any) (*rdb.Outcome, error) {
	var o *rdb.Outcome
	err := obs.observeOperation(ctx, string(rdb.ActionInsert), table, func(ctx context.Context) (int64, error) {
		var err error
		o, err = obs.service.Insert(ctx, table, values)
		return outcomeRows(o), err
	})
	return o, err
}

func (obs *ObservableService) Update(ctx context.Context, table string, values []any) (*rdb.Outcome, error) {
	var o *rdb.Outcome
	err := obs.observeOperation(ctx, string(rdb.ActionUpdate), table, func(ctx context.Context) (int64, error) {
		var err error
		o, err = obs.service.Update(ctx, table, values)
		return outcomeRows(o), err
	})
	return o, err
}

func (obs *ObservableService) Delete(ctx context.Context, table string, key any) (*rdb.Outcome, error) {
	var o *rdb.Outcome
	err := obs.observeOperation(ctx, string(rdb.ActionDelete), table, func(ctx context.Context) (int64, error) {
		var err error
		o, err = obs.service.Delete(ctx, table, key)
		return outcomeRows(o), err
	})
	return o, err
}

func (obs *ObservableService) RunRaw(ctx context.Context, table, sql string) (*rdb.ResultSet, error) {
	var rs *rdb.ResultSet
	err := obs.observeOperation(ctx, string(rdb.ActionRaw), table, func(ctx context.Context) (int64, error) {
		var err error
		rs, err = obs.service.RunRaw(ctx, table, sql)
		return resultRows(rs), err
	})
	return rs, err
}

func (obs *ObservableService) Export(ctx context.Context, table, format, path string) (*rdb.Outcome, error) {
	var o *rdb.Outcome
	err := obs.observeOperation(ctx, string(rdb.ActionExport), table, func(ctx context.Context) (int64, error) {
		var err error
		o, err = obs.service.Export(ctx, table, format, path)
		return outcomeRows(o), err
	})
	return o, err
}

// Execute 分发到本装饰器的方法，每个操作单独观测
func (obs *ObservableService) Execute(ctx context.Context, req *Request) (*Response, error) {
	return execute(ctx, obs, req)
}
