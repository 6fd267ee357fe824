package services_test

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"pipeline/src/clients/yahoo"
	"pipeline/src/models"
	"pipeline/src/services"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

// stubPrices answers from a symbol table and fails for anything else.
type stubPrices struct {
	mu      sync.Mutex
	prices  map[string]string
	queried []string
}

func (s *stubPrices) GetMarketPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queried = append(s.queried, symbol)
	price, ok := s.prices[symbol]
	if !ok {
		return decimal.Decimal{}, yahoo.ErrPriceNotFound
	}
	return decimal.RequireFromString(price), nil
}

// recorder tracks which pipeline stages ran, in order.
type recorder struct {
	mu    sync.Mutex
	steps []string
}

func (r *recorder) add(step string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

func (r *recorder) Steps() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.steps...)
}

type fakeLoader struct {
	rec     *recorder
	df      dataframe.DataFrame
	release chan struct{}
	started chan struct{}
}

func (f *fakeLoader) Load(_ context.Context, _ string) dataframe.DataFrame {
	f.rec.add("load")
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.df
}

type fakeSync struct {
	rec     *recorder
	deleted []string
	err     error
}

func (f *fakeSync) Synchronize(_ context.Context, _ dataframe.DataFrame) ([]string, error) {
	f.rec.add("sync")
	return f.deleted, f.err
}

type fakeEnrich struct{ rec *recorder }

func (f *fakeEnrich) Enrich(_ context.Context, df dataframe.DataFrame) dataframe.DataFrame {
	f.rec.add("enrich")
	return df
}

type fakePersist struct {
	rec     *recorder
	asOf    time.Time
	summary *services.PersistSummary
	err     error
}

func (f *fakePersist) Persist(_ context.Context, _ dataframe.DataFrame, asOf time.Time) (*services.PersistSummary, error) {
	f.rec.add("persist")
	f.asOf = asOf
	return f.summary, f.err
}

func (f *fakePersist) GetValuations(context.Context, time.Time) ([]models.Valuation, error) {
	return nil, nil
}
