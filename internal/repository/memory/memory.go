// Package memory provides in-process implementations of the repository
// interfaces. Services and handlers are tested against it.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/repository"
)

// Accounts is an in-memory repository.AccountRepository.
type Accounts struct {
	mu    sync.RWMutex
	byID  map[string]domain.Account
	order []string
}

func NewAccounts(accounts ...domain.Account) *Accounts {
	a := &Accounts{byID: map[string]domain.Account{}}
	for _, acc := range accounts {
		a.Put(acc)
	}
	return a
}

// Put inserts or replaces an account, keeping first-insert order.
func (a *Accounts) Put(acc domain.Account) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.byID[acc.ID]; !ok {
		a.order = append(a.order, acc.ID)
	}
	a.byID[acc.ID] = acc
}

func (a *Accounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	acc, ok := a.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &acc, nil
}

func (a *Accounts) GetByContactID(_ context.Context, contactID string) (*domain.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, id := range a.order {
		if acc := a.byID[id]; acc.ContactID == contactID {
			return &acc, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (a *Accounts) ListByManagerRefs(_ context.Context, businessID string, refs []string) ([]domain.Account, error) {
	wanted := toSet(refs)
	return a.filter(func(acc domain.Account) bool {
		if acc.BusinessID != businessID || acc.ManagerRef == nil {
			return false
		}
		_, ok := wanted[*acc.ManagerRef]
		return ok
	}), nil
}

func (a *Accounts) ListByBusiness(_ context.Context, businessID string) ([]domain.Account, error) {
	return a.filter(func(acc domain.Account) bool { return acc.BusinessID == businessID }), nil
}

func (a *Accounts) ListByIDs(_ context.Context, ids []string) ([]domain.Account, error) {
	wanted := toSet(ids)
	return a.filter(func(acc domain.Account) bool {
		_, ok := wanted[acc.ID]
		return ok
	}), nil
}

func (a *Accounts) ListByContactIDs(_ context.Context, businessID string, contactIDs []string) ([]domain.Account, error) {
	wanted := toSet(contactIDs)
	return a.filter(func(acc domain.Account) bool {
		_, ok := wanted[acc.ContactID]
		return ok && acc.BusinessID == businessID
	}), nil
}

func (a *Accounts) TouchLastLogin(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now().UTC()
	acc.LastLoginAt = &now
	a.byID[id] = acc
	return nil
}

func (a *Accounts) filter(keep func(domain.Account) bool) []domain.Account {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := []domain.Account{}
	for _, id := range a.order {
		if acc := a.byID[id]; keep(acc) {
			out = append(out, acc)
		}
	}
	return out
}

// Stores is an in-memory repository.StoreRepository.
type Stores struct {
	mu   sync.RWMutex
	byID map[string]domain.Store
}

func NewStores(stores ...domain.Store) *Stores {
	s := &Stores{byID: map[string]domain.Store{}}
	for _, st := range stores {
		s.byID[st.ID] = st
	}
	return s
}

func (s *Stores) GetByID(_ context.Context, id string) (*domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &st, nil
}

func (s *Stores) ListByIDs(_ context.Context, ids []string) ([]domain.Store, error) {
	wanted := toSet(ids)
	return s.filter(func(st domain.Store) bool {
		_, ok := wanted[st.ID]
		return ok
	}), nil
}

func (s *Stores) ListByOwners(_ context.Context, ownerIDs []string) ([]domain.Store, error) {
	wanted := toSet(ownerIDs)
	return s.filter(func(st domain.Store) bool {
		_, ok := wanted[st.OwnerAccountID]
		return ok
	}), nil
}

func (s *Stores) filter(keep func(domain.Store) bool) []domain.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Store{}
	for _, st := range s.byID {
		if keep(st) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Units is an in-memory repository.UnitRepository.
type Units struct {
	mu    sync.RWMutex
	units []domain.OrgUnit
}

func NewUnits(units ...domain.OrgUnit) *Units {
	return &Units{units: units}
}

func (u *Units) GetUnit(_ context.Context, kind domain.UnitKind, id string) (*domain.OrgUnit, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, unit := range u.units {
		if unit.Kind == kind && unit.ID == id {
			found := unit
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (u *Units) ListByOwners(_ context.Context, kind domain.UnitKind, ownerIDs []string) ([]domain.OrgUnit, error) {
	wanted := toSet(ownerIDs)
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := []domain.OrgUnit{}
	for _, unit := range u.units {
		if _, ok := wanted[unit.OwnerAccountID]; ok && unit.Kind == kind {
			out = append(out, unit)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Recordings is an in-memory repository.RecordingRepository.
type Recordings struct {
	mu   sync.RWMutex
	byID map[string]domain.Recording
}

func NewRecordings(recs ...domain.Recording) *Recordings {
	r := &Recordings{byID: map[string]domain.Recording{}}
	for _, rec := range recs {
		r.byID[rec.ID] = rec
	}
	return r
}

// Put inserts or replaces a recording.
func (r *Recordings) Put(rec domain.Recording) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.ID] = rec
}

func (r *Recordings) GetByID(_ context.Context, id string) (*domain.Recording, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &rec, nil
}

func (r *Recordings) List(_ context.Context, filter repository.RecordingFilter) ([]domain.Recording, error) {
	out := r.match(filter.OwnerIDs, filter.Window, filter.StoreID)
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *Recordings) SummarizeByOwners(_ context.Context, filter repository.RecordingFilter) ([]repository.RecordingRollup, error) {
	byOwner := map[string]*repository.RecordingRollup{}
	for _, rec := range r.match(filter.OwnerIDs, filter.Window, filter.StoreID) {
		rollup, ok := byOwner[rec.OwnerAccountID]
		if !ok {
			rollup = &repository.RecordingRollup{OwnerID: rec.OwnerAccountID}
			byOwner[rec.OwnerAccountID] = rollup
		}
		rollup.Count++
		rollup.TotalDurationSeconds += rec.DurationSeconds
		if rec.ListeningSeconds != nil {
			rollup.TotalListeningSeconds += *rec.ListeningSeconds
		}
	}
	out := make([]repository.RecordingRollup, 0, len(byOwner))
	for _, rollup := range byOwner {
		out = append(out, *rollup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerID < out[j].OwnerID })
	return out, nil
}

func (r *Recordings) UpdateListening(_ context.Context, id string, seconds float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	rec.ListeningSeconds = &seconds
	rec.LastListenedAt = &at
	r.byID[id] = rec
	return nil
}

func (r *Recordings) UpdateTranscriptionStatus(_ context.Context, id string, status domain.TranscriptionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	rec.TranscriptionStatus = status
	r.byID[id] = rec
	return nil
}

func (r *Recordings) match(ownerIDs []string, window *domain.TimeWindow, storeID *string) []domain.Recording {
	wanted := toSet(ownerIDs)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Recording{}
	for _, rec := range r.byID {
		if _, ok := wanted[rec.OwnerAccountID]; !ok {
			continue
		}
		if window != nil && !window.Contains(rec.CreatedAt) {
			continue
		}
		if storeID != nil && (rec.StoreID == nil || *rec.StoreID != *storeID) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Feedback is an in-memory repository.FeedbackRepository. It consults
// Recordings for owner filtering.
type Feedback struct {
	mu         sync.Mutex
	rows       []domain.Feedback
	recordings *Recordings
	now        func() time.Time
}

func NewFeedback(recordings *Recordings, now func() time.Time) *Feedback {
	if now == nil {
		now = time.Now
	}
	return &Feedback{recordings: recordings, now: now}
}

func (f *Feedback) InsertIfAbsent(_ context.Context, fb *domain.Feedback, contactSince time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.RecordingID == fb.RecordingID {
			return repository.ErrFeedbackExists
		}
	}
	if fb.ContactNumber != "" {
		for _, row := range f.rows {
			if row.SubmittedBy == fb.SubmittedBy && row.ContactNumber == fb.ContactNumber && !row.CreatedAt.Before(contactSince) {
				return repository.ErrRecentContact
			}
		}
	}
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = f.now()
	}
	fb.ModifiedAt = fb.CreatedAt
	f.rows = append(f.rows, *fb)
	return nil
}

func (f *Feedback) ListByRecordingIDs(_ context.Context, recordingIDs []string) ([]domain.Feedback, error) {
	wanted := toSet(recordingIDs)
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Feedback{}
	for _, row := range f.rows {
		if _, ok := wanted[row.RecordingID]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *Feedback) List(ctx context.Context, filter repository.FeedbackFilter) ([]domain.Feedback, error) {
	recs := f.recordings.match(filter.OwnerIDs, filter.Window, filter.StoreID)
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	out, err := f.ListByRecordingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Annotations is an in-memory repository.AnnotationRepository.
type Annotations struct {
	rows []domain.TranscriptAnnotation
}

func NewAnnotations(rows ...domain.TranscriptAnnotation) *Annotations {
	return &Annotations{rows: rows}
}

func (a *Annotations) ListByRecordingIDs(_ context.Context, recordingIDs []string) ([]domain.TranscriptAnnotation, error) {
	wanted := toSet(recordingIDs)
	out := []domain.TranscriptAnnotation{}
	for _, row := range a.rows {
		if _, ok := wanted[row.RecordingID]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

var (
	_ repository.AccountRepository    = (*Accounts)(nil)
	_ repository.StoreRepository      = (*Stores)(nil)
	_ repository.UnitRepository       = (*Units)(nil)
	_ repository.RecordingRepository  = (*Recordings)(nil)
	_ repository.FeedbackRepository   = (*Feedback)(nil)
	_ repository.AnnotationRepository = (*Annotations)(nil)
)
