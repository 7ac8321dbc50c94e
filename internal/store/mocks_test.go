package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// MockRedis implements RedisClient over in-memory maps
type MockRedis struct {
	Strings map[string]string
	Hashes  map[string]map[string]string
	Err     error
}

func NewMockRedis() *MockRedis {
	return &MockRedis{
		Strings: make(map[string]string),
		Hashes:  make(map[string]map[string]string),
	}
}

func (m *MockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.Err != nil {
		return redis.NewStringResult("", m.Err)
	}
	val, ok := m.Strings[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (m *MockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if m.Err != nil {
		return redis.NewStatusResult("", m.Err)
	}
	switch v := value.(type) {
	case string:
		m.Strings[key] = v
	case []byte:
		m.Strings[key] = string(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *MockRedis) HGet(ctx context.Context, key, field string) *redis.StringCmd {
	if m.Err != nil {
		return redis.NewStringResult("", m.Err)
	}
	val, ok := m.Hashes[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (m *MockRedis) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	if m.Err != nil {
		return redis.NewIntResult(0, m.Err)
	}
	if m.Hashes[key] == nil {
		m.Hashes[key] = make(map[string]string)
	}
	for i := 0; i+1 < len(values); i += 2 {
		f, _ := values[i].(string)
		v, _ := values[i+1].(string)
		m.Hashes[key][f] = v
	}
	return redis.NewIntResult(int64(len(values) / 2), nil)
}

// MockPg implements PgPool. Rows holds canned result rows for Query; Row
// holds the single QueryRow result.
type MockPg struct {
	Rows     [][]any
	RowErr   error
	ExecErr  error
	ExecSQL  []string
	ExecArgs [][]any
}

func (m *MockPg) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.RowErr != nil {
		return nil, m.RowErr
	}
	return &mockRows{rows: m.Rows}, nil
}

func (m *MockPg) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.RowErr != nil {
		return &mockRow{err: m.RowErr}
	}
	if len(m.Rows) == 0 {
		return &mockRow{err: pgx.ErrNoRows}
	}
	return &mockRow{values: m.Rows[0]}
}

func (m *MockPg) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.ExecSQL = append(m.ExecSQL, sql)
	m.ExecArgs = append(m.ExecArgs, args)
	return pgconn.CommandTag{}, m.ExecErr
}

type mockRow struct {
	values []any
	err    error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(dest, r.values)
}

type mockRows struct {
	rows [][]any
	idx  int
}

func (r *mockRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *mockRows) Scan(dest ...any) error { return scanInto(dest, r.rows[r.idx-1]) }

func (r *mockRows) Close()                                       {}
func (r *mockRows) Err() error                                   { return nil }
func (r *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *mockRows) Values() ([]any, error)                       { return nil, nil }
func (r *mockRows) RawValues() [][]byte                          { return nil }
func (r *mockRows) Conn() *pgx.Conn                              { return nil }

func scanInto(dest, values []any) error {
	for i, d := range dest {
		if i >= len(values) {
			break
		}
		switch v := d.(type) {
		case *string:
			*v = values[i].(string)
		case *[]byte:
			*v = values[i].([]byte)
		case *int:
			*v = values[i].(int)
		}
	}
	return nil
}
