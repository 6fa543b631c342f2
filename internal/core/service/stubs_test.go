package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// In-memory fakes shared by the service tests.

type stubAccountRepo struct {
	mu       sync.Mutex
	seq      int
	accounts map[string]*domain.Account // keyed by lower-cased email
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(account.Email)
	if _, exists := r.accounts[key]; exists {
		return nil, domain.ErrEmailTaken
	}
	for _, a := range r.accounts {
		if a.Username == account.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	copy := cloneAccount(account)
	if copy.ID == "" {
		r.seq++
		copy.ID = fmt.Sprintf("acc_%d", r.seq)
	}
	r.accounts[key] = cloneAccount(copy)
	return copy, nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ID == id {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[strings.ToLower(email)]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *stubAccountRepo) ListByRole(_ context.Context, role string) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Account
	for _, a := range r.accounts {
		if a.Role == role {
			out = append(out, cloneAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[strings.ToLower(email)]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *stubAccountRepo) DeleteByEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := r.accounts[key]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, key)
	return nil
}

type stubVerificationRepo struct {
	mu    sync.Mutex
	seq   int
	codes []*domain.VerificationCode
}

func newStubVerificationRepo() *stubVerificationRepo {
	return &stubVerificationRepo{}
}

func (r *stubVerificationRepo) Insert(_ context.Context, code *domain.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	code.ID = fmt.Sprintf("vc_%d", r.seq)
	clone := *code
	r.codes = append(r.codes, &clone)
	return nil
}

func (r *stubVerificationRepo) FindLatestUnused(_ context.Context, email string, purpose domain.CodePurpose) (*domain.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.VerificationCode
	for _, c := range r.codes {
		if c.Email != email || c.Purpose != purpose || c.Used {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, domain.ErrCodeInvalid
	}
	clone := *latest
	return &clone, nil
}

func (r *stubVerificationRepo) SupersedeUnused(_ context.Context, email string, purpose domain.CodePurpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.Email == email && c.Purpose == purpose && !c.Used {
			c.Used = true
		}
	}
	return nil
}

func (r *stubVerificationRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.ID == id {
			c.Used = true
			return nil
		}
	}
	return domain.ErrCodeInvalid
}

// backdate shifts the CreatedAt of the identified code into the past.
func (r *stubVerificationRepo) backdate(id string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.ID == id {
			c.CreatedAt = c.CreatedAt.Add(-d)
		}
	}
}

func (r *stubVerificationRepo) latestID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.codes) == 0 {
		return ""
	}
	return r.codes[len(r.codes)-1].ID
}

type stubMailDispatcher struct {
	mu       sync.Mutex
	messages []ports.MailMessage
}

func (d *stubMailDispatcher) Enqueue(msg ports.MailMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
}

func (d *stubMailDispatcher) sent() []ports.MailMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ports.MailMessage, len(d.messages))
	copy(out, d.messages)
	return out
}

type stubTokenIssuer struct{}

func (stubTokenIssuer) Issue(account *domain.Account) (string, error) {
	return "token-for-" + account.ID, nil
}

type stubVehicleRepo struct {
	mu       sync.Mutex
	seq      int
	vehicles []*domain.Vehicle
}

func (r *stubVehicleRepo) Create(_ context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *v
	clone.ID = fmt.Sprintf("veh_%d", r.seq)
	r.vehicles = append(r.vehicles, &clone)
	out := clone
	return &out, nil
}

func (r *stubVehicleRepo) FindByID(_ context.Context, id, tenantName string) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.ID == id && (tenantName == "" || v.TenantName == tenantName) {
			clone := *v
			return &clone, nil
		}
	}
	return nil, domain.ErrVehicleNotFound
}

func (r *stubVehicleRepo) List(_ context.Context, tenantName string) ([]*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Vehicle
	for _, v := range r.vehicles {
		if tenantName == "" || v.TenantName == tenantName {
			clone := *v
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubDriverRepo struct {
	mu      sync.Mutex
	seq     int
	drivers []*domain.Driver
}

func (r *stubDriverRepo) Create(_ context.Context, d *domain.Driver) (*domain.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *d
	clone.ID = fmt.Sprintf("drv_%d", r.seq)
	r.drivers = append(r.drivers, &clone)
	out := clone
	return &out, nil
}

func (r *stubDriverRepo) FindByID(_ context.Context, id, tenantName string) (*domain.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drivers {
		if d.ID == id && (tenantName == "" || d.TenantName == tenantName) {
			clone := *d
			return &clone, nil
		}
	}
	return nil, domain.ErrDriverNotFound
}

func (r *stubDriverRepo) List(_ context.Context, tenantName string) ([]*domain.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Driver
	for _, d := range r.drivers {
		if tenantName == "" || d.TenantName == tenantName {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubCompanyRepo struct {
	mu        sync.Mutex
	seq       int
	companies []*domain.Company
}

func (r *stubCompanyRepo) Create(_ context.Context, c *domain.Company) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("cmp_%d", r.seq)
	r.companies = append(r.companies, &clone)
	out := clone
	return &out, nil
}

func (r *stubCompanyRepo) List(_ context.Context) ([]*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Company, 0, len(r.companies))
	for _, c := range r.companies {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

type stubReservationRepo struct {
	mu           sync.Mutex
	seq          int
	reservations map[string]*domain.Reservation
}

func newStubReservationRepo() *stubReservationRepo {
	return &stubReservationRepo{reservations: make(map[string]*domain.Reservation)}
}

func (r *stubReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *res
	clone.ID = fmt.Sprintf("rsv_%d", r.seq)
	r.reservations[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubReservationRepo) FindByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	clone := *res
	return &clone, nil
}

func (r *stubReservationRepo) List(_ context.Context, tenantName string) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Reservation
	for _, res := range r.reservations {
		if tenantName == "" || res.TenantName == tenantName {
			clone := *res
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubReservationRepo) Update(_ context.Context, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[res.ID]; !ok {
		return domain.ErrReservationNotFound
	}
	clone := *res
	r.reservations[res.ID] = &clone
	return nil
}

func (r *stubReservationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[id]; !ok {
		return domain.ErrReservationNotFound
	}
	delete(r.reservations, id)
	return nil
}

type stubNotificationRepo struct {
	mu            sync.Mutex
	seq           int
	notifications []*domain.Notification
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n.ID = fmt.Sprintf("ntf_%d", r.seq)
	clone := *n
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *stubNotificationRepo) List(_ context.Context, tenantName string) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].TenantName == tenantName {
			clone := *r.notifications[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id, tenantName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && (tenantName == "" || n.TenantName == tenantName) {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) DeleteByTenant(_ context.Context, tenantName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*domain.Notification
	for _, n := range r.notifications {
		if n.TenantName != tenantName {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

type stubDecisionStore struct {
	mu     sync.Mutex
	tokens map[string]domain.DecisionRef
}

func newStubDecisionStore() *stubDecisionStore {
	return &stubDecisionStore{tokens: make(map[string]domain.DecisionRef)}
}

func (s *stubDecisionStore) Save(_ context.Context, token string, ref domain.DecisionRef, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = ref
	return nil
}

func (s *stubDecisionStore) Consume(_ context.Context, token string) (*domain.DecisionRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.tokens[token]
	if !ok {
		return nil, domain.ErrDecisionLinkInvalid
	}
	delete(s.tokens, token)
	return &ref, nil
}
