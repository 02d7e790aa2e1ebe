package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// queryLogConnector opens sqlite3 connections whose statements report
// their SQL, arguments, duration and error to a logger.
type queryLogConnector struct {
	dsn    string
	logger *slog.Logger
	driver *sqlite3.SQLiteDriver
}

// NewQueryLogConnector returns a connector for sql.OpenDB. A nil logger
// falls back to slog.Default().
func NewQueryLogConnector(dsn string, logger *slog.Logger) driver.Connector {
	if logger == nil {
		logger = slog.Default()
	}
	return &queryLogConnector{
		dsn:    dsn,
		logger: logger.With("component", "db"),
		driver: &sqlite3.SQLiteDriver{},
	}
}

func (c *queryLogConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.driver.Open(c.dsn)
	if err != nil {
		return nil, err
	}
	return &queryLogConn{Conn: conn, logger: c.logger}, nil
}

func (c *queryLogConnector) Driver() driver.Driver { return unsupportedDriver{} }

type unsupportedDriver struct{}

func (unsupportedDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("query log driver: open through sql.OpenDB(NewQueryLogConnector(...))")
}

type queryLogConn struct {
	driver.Conn
	logger *slog.Logger
}

func (c *queryLogConn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

func (c *queryLogConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	var (
		stmt driver.Stmt
		err  error
	)
	if p, ok := c.Conn.(driver.ConnPrepareContext); ok {
		stmt, err = p.PrepareContext(ctx, query)
	} else {
		stmt, err = c.Conn.Prepare(query)
	}
	if err != nil {
		c.logger.Debug("sql prepare failed", "sql", query, "error", err)
		return nil, err
	}
	return &queryLogStmt{Stmt: stmt, query: query, logger: c.logger}, nil
}

func (c *queryLogConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if b, ok := c.Conn.(driver.ConnBeginTx); ok {
		return b.BeginTx(ctx, opts)
	}
	//nolint:staticcheck // SA1019: fallback for drivers without BeginTx
	return c.Conn.Begin()
}

type queryLogStmt struct {
	driver.Stmt
	query  string
	logger *slog.Logger
}

func (s *queryLogStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	var (
		res driver.Result
		err error
	)
	if e, ok := s.Stmt.(driver.StmtExecContext); ok {
		res, err = e.ExecContext(ctx, args)
	} else {
		//nolint:staticcheck // SA1019: fallback for statements without ExecContext
		res, err = s.Stmt.Exec(plainValues(args))
	}
	s.log(ctx, "exec", args, start, err)
	return res, err
}

func (s *queryLogStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	start := time.Now()
	var (
		rows driver.Rows
		err  error
	)
	if q, ok := s.Stmt.(driver.StmtQueryContext); ok {
		rows, err = q.QueryContext(ctx, args)
	} else {
		//nolint:staticcheck // SA1019: fallback for statements without QueryContext
		rows, err = s.Stmt.Query(plainValues(args))
	}
	s.log(ctx, "query", args, start, err)
	return rows, err
}

func (s *queryLogStmt) log(ctx context.Context, op string, args []driver.NamedValue, start time.Time, err error) {
	attrs := []any{
		"op", op,
		"sql", s.query,
		"args", describeArgs(args),
		"duration", time.Since(start),
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	s.logger.DebugContext(ctx, "sql", attrs...)
}

func describeArgs(args []driver.NamedValue) []string {
	out := make([]string, len(args))
	for i, a := range args {
		v := "NULL"
		switch t := a.Value.(type) {
		case nil:
		case []byte:
			v = string(t)
		default:
			v = fmt.Sprint(t)
		}
		if a.Name != "" {
			v = a.Name + "=" + v
		}
		out[i] = v
	}
	return out
}

func plainValues(args []driver.NamedValue) []driver.Value {
	out := make([]driver.Value, len(args))
	for i := range args {
		out[i] = args[i].Value
	}
	return out
}
