package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
)

type key struct {
	format model.Format
	id     string
}

// Memory is an in-process sink with the same upsert semantics as Postgres.
// It backs dry runs and tests.
type Memory struct {
	mu          sync.RWMutex
	cash        map[key]model.CashTransaction
	investments map[key]model.InvestmentTransaction
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{
		cash:        make(map[key]model.CashTransaction),
		investments: make(map[key]model.InvestmentTransaction),
	}
}

func (m *Memory) UpsertCash(_ context.Context, format model.Format, txs []model.CashTransaction) (model.UpsertStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats model.UpsertStats
	for _, t := range txs {
		k := key{format, t.ID}
		if _, ok := m.cash[k]; ok {
			stats.Updated++
		} else {
			stats.Inserted++
		}
		m.cash[k] = t
	}
	return stats, nil
}

func (m *Memory) UpsertInvestments(_ context.Context, format model.Format, txs []model.InvestmentTransaction) (model.UpsertStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats model.UpsertStats
	for _, t := range txs {
		k := key{format, t.ID}
		if _, ok := m.investments[k]; ok {
			stats.Updated++
		} else {
			stats.Inserted++
		}
		m.investments[k] = t
	}
	return stats, nil
}

// Len returns the number of stored records of both kinds.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cash) + len(m.investments)
}

// Cash returns the stored cash records for a format, sorted by id.
func (m *Memory) Cash(format model.Format) []model.CashTransaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.CashTransaction
	for k, t := range m.cash {
		if k.format == format {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Investments returns the stored investment records for a format, sorted by id.
func (m *Memory) Investments(format model.Format) []model.InvestmentTransaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.InvestmentTransaction
	for k, t := range m.investments {
		if k.format == format {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
