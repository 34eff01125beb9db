package handlers

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

var errRemote = errors.New("remote unavailable")

// memLeads is an in-memory lead table. Ids listed in failDelete fail to delete.
type memLeads struct {
	mu         sync.Mutex
	rows       map[int64]entity.Lead
	next       int64
	failDelete map[int64]bool
	down       bool
}

func newMemLeads(leads ...entity.Lead) *memLeads {
	m := &memLeads{rows: map[int64]entity.Lead{}, failDelete: map[int64]bool{}}
	for _, l := range leads {
		m.rows[l.ID] = l
		if l.ID > m.next {
			m.next = l.ID
		}
	}
	return m
}

func (m *memLeads) FindAll(context.Context) ([]entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil, errRemote
	}
	out := []entity.Lead{}
	for id := int64(1); id <= m.next; id++ {
		if l, ok := m.rows[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLeads) FindByID(_ context.Context, id int64) (*entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &l, nil
}

func (m *memLeads) FindCreatedOn(context.Context, string) ([]entity.Lead, error) {
	return []entity.Lead{}, nil
}

func (m *memLeads) FindFollowUpsBetween(context.Context, string, string) ([]entity.Lead, error) {
	return []entity.Lead{}, nil
}

func (m *memLeads) Create(_ context.Context, l *entity.Lead) (*entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	c := *l
	c.ID = m.next
	m.rows[c.ID] = c
	return &c, nil
}

func (m *memLeads) Update(_ context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	for k, v := range patch {
		switch k {
		case entity.FieldName:
			l.Name, _ = v.(string)
		case entity.FieldStatus:
			l.Status, _ = v.(string)
		case entity.FieldARR:
			l.ARR, _ = v.(float64)
		case entity.FieldWebsiteURL:
			l.WebsiteURL, _ = v.(string)
		}
	}
	m.rows[id] = l
	return &l, nil
}

func (m *memLeads) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete[id] {
		return errRemote
	}
	delete(m.rows, id)
	return nil
}

type memDeals struct {
	mu   sync.Mutex
	rows []entity.Deal
}

func (m *memDeals) FindAll(context.Context, int) ([]entity.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Deal{}, m.rows...), nil
}

func (m *memDeals) FindByID(_ context.Context, id int64) (*entity.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.rows {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memDeals) FindByLeadID(_ context.Context, leadID string) ([]entity.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Deal{}
	for _, d := range m.rows {
		if d.LeadID == leadID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDeals) Create(_ context.Context, d *entity.Deal) (*entity.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *d
	c.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, c)
	return &c, nil
}

func (m *memDeals) Update(_ context.Context, id int64, patch entity.DealPatch) (*entity.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			if s, ok := patch[entity.FieldDealStage].(string); ok {
				m.rows[i].Stage = s
			}
			d := m.rows[i]
			return &d, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memDeals) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("deal " + strconv.FormatInt(id, 10) + " not found")
}

type memContacts struct {
	mu   sync.Mutex
	rows []entity.Contact
}

func (m *memContacts) List(context.Context) ([]entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Contact{}, m.rows...), nil
}

func (m *memContacts) Get(_ context.Context, id int64) (*entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memContacts) Create(_ context.Context, c *entity.Contact) (*entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := *c
	n.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, n)
	return &n, nil
}

func (m *memContacts) Update(_ context.Context, id int64, patch map[string]any) (*entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			if s, ok := patch[entity.FieldName].(string); ok {
				m.rows[i].Name = s
			}
			c := m.rows[i]
			return &c, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memContacts) Delete(context.Context, int64) error { return nil }
