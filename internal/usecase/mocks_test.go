package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"expert-match/internal/domain/demand"
	"expert-match/internal/domain/expert"
	"expert-match/internal/domain/match"
	"expert-match/internal/domain/matching"
	"expert-match/internal/repository"

	"github.com/google/uuid"
)

type mockDemandRepo struct {
	items map[uuid.UUID]demand.Demand
	err   error
	calls int
}

func (m *mockDemandRepo) FindByID(_ context.Context, id uuid.UUID) (demand.Demand, error) {
	m.calls++
	if m.err != nil {
		return demand.Demand{}, m.err
	}
	d, ok := m.items[id]
	if !ok {
		return demand.Demand{}, repository.ErrNotFound
	}
	return d, nil
}

type mockExpertRepo struct {
	pool  []expert.Candidate
	err   error
	calls int
}

func (m *mockExpertRepo) ListCandidatePool(context.Context) ([]expert.Candidate, error) {
	m.calls++
	return m.pool, m.err
}

func (m *mockExpertRepo) FindCandidateByID(_ context.Context, id uuid.UUID) (expert.Candidate, error) {
	if m.err != nil {
		return expert.Candidate{}, m.err
	}
	for _, c := range m.pool {
		if c.ID == id {
			if c.LoadErr != nil {
				return expert.Candidate{}, c.LoadErr
			}
			return c, nil
		}
	}
	return expert.Candidate{}, repository.ErrNotFound
}

type mockMatchingRepo struct {
	existing map[uuid.UUID]bool
	records  []matching.MatchingRecord
	items    map[uuid.UUID]match.Matching
	err      error
	// updateErr is returned by UpdateStatus after the row was loaded.
	updateErr error

	got     []match.Matching
	updates []match.StatusUpdate
}

func (m *mockMatchingRepo) CreateProposals(_ context.Context, demandID uuid.UUID, proposals []match.Matching) ([]match.Matching, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.got = proposals
	out := []match.Matching{}
	for _, p := range proposals {
		if m.existing[p.ExpertID] {
			continue
		}
		p.ID = uuid.New()
		p.DemandID = demandID
		out = append(out, p)
	}
	return out, nil
}

func (m *mockMatchingRepo) ListActiveRecords(context.Context) ([]matching.MatchingRecord, error) {
	return m.records, m.err
}

func (m *mockMatchingRepo) FindByID(_ context.Context, id uuid.UUID) (match.Matching, error) {
	if m.err != nil {
		return match.Matching{}, m.err
	}
	got, ok := m.items[id]
	if !ok {
		return match.Matching{}, repository.ErrNotFound
	}
	return got, nil
}

func (m *mockMatchingRepo) UpdateStatus(_ context.Context, id uuid.UUID, upd match.StatusUpdate) (match.Matching, error) {
	m.updates = append(m.updates, upd)
	if m.updateErr != nil {
		return match.Matching{}, m.updateErr
	}
	cur, ok := m.items[id]
	if !ok || !cur.IsActive || !slices.Contains(upd.From, cur.Status) {
		return match.Matching{}, repository.ErrStatusConflict
	}
	cur.Status = upd.Status
	if upd.ExpertResponse != nil {
		cur.ExpertResponse = upd.ExpertResponse
	}
	if upd.RespondedAt != nil {
		cur.RespondedAt = upd.RespondedAt
	}
	if upd.CompanyFeedback != nil {
		cur.CompanyFeedback = upd.CompanyFeedback
	}
	if upd.CompanyRating != nil {
		cur.CompanyRating = upd.CompanyRating
	}
	m.items[id] = cur
	return cur, nil
}

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

func (c *memCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		return false, nil
	}
	c.items[key] = []byte(value)
	return true, nil
}

func (c *memCache) ReleaseLock(_ context.Context, key string, value string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if string(c.items[key]) != value {
		return false, nil
	}
	delete(c.items, key)
	return true, nil
}

func ptrF(v float64) *float64 { return &v }

func ptrI(v int) *int { return &v }

var (
	demandML = uuid.MustParse("00000000-0000-0000-0000-0000000000d1")
	expertA  = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	expertB  = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
)

func fixtureDemands() *mockDemandRepo {
	return &mockDemandRepo{items: map[uuid.UUID]demand.Demand{
		demandML: {ID: demandML, Title: "ML review", RequiredSpecialties: []string{"ML"}, Status: demand.StatusPending},
	}}
}

// fixtureExperts: A totals 93.0 against demandML, B totals 21.5.
// malformedCandidate mimics a row whose specialties column failed to decode.
func malformedCandidate(id uuid.UUID) expert.Candidate {
	return expert.Candidate{
		Expert:  expert.Expert{ID: id, Name: "Broken", Specialties: []string{}, QualificationStatus: "QUALIFIED"},
		LoadErr: fmt.Errorf("%w: expert %s: decode tags", repository.ErrMalformedRow, id),
	}
}

func fixtureExperts() *mockExpertRepo {
	return &mockExpertRepo{pool: []expert.Candidate{
		{
			Expert: expert.Expert{
				ID: expertB, Name: "B", Specialties: []string{"DL"}, QualificationStatus: "PENDING",
			},
			ActiveMatchings: 3,
		},
		{
			Expert: expert.Expert{
				ID: expertA, Name: "A", Specialties: []string{"ML", "DL"}, QualificationStatus: "QUALIFIED", CareerYears: ptrI(10),
			},
			AveragePercentage: ptrF(90),
			GradedCount:       4,
		},
	}}
}
