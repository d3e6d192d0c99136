// Package dbtest provides an in-memory fake pool for testing code built on
// the database executor. It implements database.Querier with expectation-based
// mocking and a fluent API, so unit tests verify translated SQL and execution
// without a real PostgreSQL instance.
//
// Usage example:
//
//	pool := dbtest.NewFakePool()
//	pool.ExpectQuery("SELECT").WillReturnRows(
//	    dbtest.NewRowSet("id", "title").AddRow(int64(1), "Dune"))
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// FakePool is an in-memory fake connection pool implementing database.Querier.
// Expectations are consumed in FIFO order; calls are recorded for assertions.
type FakePool struct {
	mu           sync.Mutex
	expectations []*QueryExpectation
	calls        []QueryCall
}

// QueryCall records a single Query invocation as seen by the pool, after
// placeholder translation.
type QueryCall struct {
	SQL  string
	Args []any
}

// QueryExpectation defines what should happen when a matching query executes.
type QueryExpectation struct {
	pool    *FakePool
	pattern string
	rows    *RowSet
	tag     pgconn.CommandTag
	err     error
}

// NewFakePool creates an empty fake pool.
func NewFakePool() *FakePool {
	return &FakePool{}
}

// ExpectQuery queues an expectation matched by substring against the SQL the
// pool receives. Returns the expectation builder for configuring the
// response.
func (p *FakePool) ExpectQuery(sqlPattern string) *QueryExpectation {
	exp := &QueryExpectation{
		pool:    p,
		pattern: sqlPattern,
		tag:     pgconn.NewCommandTag(""),
	}
	p.mu.Lock()
	p.expectations = append(p.expectations, exp)
	p.mu.Unlock()
	return exp
}

// WillReturnRows configures the expectation to return the given row set with
// a SELECT command tag.
func (e *QueryExpectation) WillReturnRows(rs *RowSet) *FakePool {
	e.rows = rs
	e.tag = pgconn.NewCommandTag(fmt.Sprintf("SELECT %d", len(rs.rows)))
	return e.pool
}

// WillReturnTag configures the expectation to return an empty row set with
// the given command tag string, e.g. "UPDATE 3" or "INSERT 0 1".
func (e *QueryExpectation) WillReturnTag(tag string) *FakePool {
	e.tag = pgconn.NewCommandTag(tag)
	return e.pool
}

// WillReturnError configures the expectation to fail with err.
func (e *QueryExpectation) WillReturnError(err error) *FakePool {
	e.err = err
	return e.pool
}

// Query implements database.Querier. It consumes the next expectation whose
// pattern is a substring of sql; a query with no matching expectation fails
// the test at the call site with a descriptive error.
func (p *FakePool) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, QueryCall{SQL: sql, Args: args})

	if len(p.expectations) == 0 {
		return nil, fmt.Errorf("dbtest: unexpected query: %s", sql)
	}

	exp := p.expectations[0]
	if !strings.Contains(sql, exp.pattern) {
		return nil, fmt.Errorf("dbtest: query %q does not match expectation %q", sql, exp.pattern)
	}
	p.expectations = p.expectations[1:]

	if exp.err != nil {
		return nil, exp.err
	}

	rs := exp.rows
	if rs == nil {
		rs = NewRowSet()
	}

	return &fakeRows{
		columns: rs.columns,
		rows:    rs.rows,
		tag:     exp.tag,
	}, nil
}

// Calls returns all recorded Query invocations in order.
func (p *FakePool) Calls() []QueryCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]QueryCall, len(p.calls))
	copy(out, p.calls)
	return out
}

// LastCall returns the most recent Query invocation, or a zero QueryCall if
// none were made.
func (p *FakePool) LastCall() QueryCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return QueryCall{}
	}
	return p.calls[len(p.calls)-1]
}

// Pending returns the number of expectations not yet consumed.
func (p *FakePool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.expectations)
}
