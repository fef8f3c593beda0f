package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/repository"
)

// memStore is an in-memory stand-in for the postgres repositories. It keeps
// the same conditional-update semantics.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[string]*models.User
	admins   map[string]*models.Admin
	auths    map[[2]int64]*models.Authorization
	requests map[int64]*models.TransferRequest
	history  []*models.TransferHistory
	audit    []models.AuditEntry
	contacts map[int64]*models.Contact

	auditErr error
	failErr  error
	checks   int
	now      func() time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		admins:   map[string]*models.Admin{},
		auths:    map[[2]int64]*models.Authorization{},
		requests: map[int64]*models.TransferRequest{},
		contacts: map[int64]*models.Contact{},
		now:      time.Now,
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Users:            memUsers{m},
		Admins:           memAdmins{m},
		Authorizations:   memAuths{m},
		TransferRequests: memRequests{m},
		TransferHistory:  memHistory{m},
		AuditLog:         memAudit{m},
		Contacts:         memContacts{m},
	}
}

func (m *memStore) addAdmin(address string) models.Admin {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &models.Admin{ID: m.id(), WalletAddress: address, Role: "admin", Permissions: pq.StringArray{}, IsActive: true, CreatedAt: m.now()}
	m.admins[address] = a
	return *a
}

func (m *memStore) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.audit))
	for _, e := range m.audit {
		out = append(out, e.Action)
	}
	return out
}

type memUsers struct{ m *memStore }

func (r memUsers) UpsertLogin(_ context.Context, address string) (models.User, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[address]; ok {
		u.TotalLogins++
		u.LastSeenAt = r.m.now()
		return *u, false, nil
	}
	u := &models.User{ID: r.m.id(), WalletAddress: address, FirstSeenAt: r.m.now(), LastSeenAt: r.m.now(), TotalLogins: 1, IsActive: true}
	r.m.users[address] = u
	return *u, true, nil
}

func (r memUsers) Ensure(_ context.Context, address string) (models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[address]; ok {
		return *u, nil
	}
	u := &models.User{ID: r.m.id(), WalletAddress: address, FirstSeenAt: r.m.now(), LastSeenAt: r.m.now(), IsActive: true}
	r.m.users[address] = u
	return *u, nil
}

func (r memUsers) GetByWallet(_ context.Context, address string) (models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[address]; ok {
		return *u, nil
	}
	return models.User{}, repository.ErrNotFound
}

func (r memUsers) Stats(_ context.Context, userID int64, address string) (models.UserStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var s models.UserStats
	for k, a := range r.m.auths {
		if k[0] == userID && a.EffectiveAt(r.m.now()) {
			s.Authorizations++
		}
	}
	for _, req := range r.m.requests {
		if req.FromUserID == userID {
			s.TransferRequests++
		}
	}
	for _, h := range r.m.history {
		if h.UserID == userID {
			s.Transfers++
		}
	}
	for _, c := range r.m.contacts {
		if c.UserAddress == address {
			s.Contacts++
		}
	}
	return s, nil
}

type memAdmins struct{ m *memStore }

func (r memAdmins) GetByWallet(_ context.Context, address string) (models.Admin, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if a, ok := r.m.admins[address]; ok {
		return *a, nil
	}
	return models.Admin{}, repository.ErrNotFound
}

func (r memAdmins) GetActiveByWallet(ctx context.Context, address string) (models.Admin, error) {
	a, err := r.GetByWallet(ctx, address)
	if err == nil && !a.IsActive {
		return models.Admin{}, repository.ErrNotFound
	}
	return a, err
}

func (r memAdmins) Upsert(_ context.Context, address, role string, permissions []string) (models.Admin, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.admins[address]
	if !ok {
		a = &models.Admin{ID: r.m.id(), WalletAddress: address, CreatedAt: r.m.now()}
		r.m.admins[address] = a
	}
	a.Role, a.Permissions, a.IsActive = role, permissions, true
	return *a, nil
}

func (r memAdmins) Deactivate(_ context.Context, address string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.admins[address]
	if !ok {
		return repository.ErrNotFound
	}
	a.IsActive = false
	return nil
}

func (r memAdmins) List(context.Context) ([]models.Admin, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Admin{}
	for _, a := range r.m.admins {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memAuths struct{ m *memStore }

func (r memAuths) Upsert(_ context.Context, user models.User, admin models.Admin, opts models.AuthorizeOptions) (models.Authorization, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := [2]int64{user.ID, admin.ID}
	now := r.m.now()
	a, ok := r.m.auths[key]
	if !ok {
		a = &models.Authorization{ID: r.m.id(), UserID: user.ID, AdminID: admin.ID, UserAddress: user.WalletAddress, AdminAddress: admin.WalletAddress, CreatedAt: now}
		r.m.auths[key] = a
	}
	a.Authorized = true
	a.AuthorizedAt = &now
	a.RevokedAt = nil
	a.ExpirationDate = opts.ExpirationDate
	a.AmountLimit = opts.AmountLimit
	if opts.Notes != nil {
		a.Notes = opts.Notes
	}
	a.UpdatedAt = now
	return *a, nil
}

func (r memAuths) Get(_ context.Context, userID, adminID int64) (models.Authorization, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if a, ok := r.m.auths[[2]int64{userID, adminID}]; ok {
		return *a, nil
	}
	return models.Authorization{}, repository.ErrNotFound
}

func (r memAuths) Revoke(_ context.Context, userID, adminID int64) (models.Authorization, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.auths[[2]int64{userID, adminID}]
	if !ok {
		return models.Authorization{}, repository.ErrNotFound
	}
	now := r.m.now()
	a.Authorized = false
	a.RevokedAt = &now
	return *a, nil
}

func (r memAuths) ListEffectiveByAdmin(_ context.Context, adminID int64, at time.Time) ([]models.AuthorizedUser, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.AuthorizedUser{}
	for _, a := range r.m.auths {
		if a.AdminID != adminID || !a.EffectiveAt(at) {
			continue
		}
		u := r.m.users[a.UserAddress]
		out = append(out, models.AuthorizedUser{
			AuthorizationID: a.ID, UserID: a.UserID, WalletAddress: a.UserAddress,
			AuthorizedAt: a.AuthorizedAt, ExpirationDate: a.ExpirationDate, AmountLimit: a.AmountLimit,
			LastSeenAt: u.LastSeenAt, TotalLogins: u.TotalLogins,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AuthorizationID < out[j].AuthorizationID })
	return out, nil
}

func (r memAuths) ListEffectiveByUser(_ context.Context, userID int64, at time.Time) ([]models.AuthorizedAdmin, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.AuthorizedAdmin{}
	for _, a := range r.m.auths {
		if a.UserID != userID || !a.EffectiveAt(at) {
			continue
		}
		ad := r.m.admins[a.AdminAddress]
		if !ad.IsActive {
			continue
		}
		out = append(out, models.AuthorizedAdmin{Authorization: *a, Role: ad.Role, Permissions: ad.Permissions})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memRequests struct{ m *memStore }

func (r memRequests) Create(_ context.Context, req models.TransferRequest) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	req.ID = r.m.id()
	req.Status = models.RequestPending
	req.RequestedAt = r.m.now()
	r.m.requests[req.ID] = &req
	return req.ID, nil
}

func (r memRequests) Get(_ context.Context, id int64) (models.TransferRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if req, ok := r.m.requests[id]; ok {
		return *req, nil
	}
	return models.TransferRequest{}, repository.ErrNotFound
}

// conditional runs fn only when the row is in status from.
func (r memRequests) conditional(id int64, from string, fn func(*models.TransferRequest)) (models.TransferRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	req, ok := r.m.requests[id]
	if !ok || req.Status != from {
		return models.TransferRequest{}, repository.ErrStateChanged
	}
	fn(req)
	return *req, nil
}

func (r memRequests) Respond(_ context.Context, id int64, status string, reason *string) (models.TransferRequest, error) {
	return r.conditional(id, models.RequestPending, func(req *models.TransferRequest) {
		now := r.m.now()
		req.Status, req.RespondedAt, req.RejectionReason = status, &now, reason
	})
}

func (r memRequests) Fail(_ context.Context, id int64, reason string) (models.TransferRequest, error) {
	if r.m.failErr != nil {
		return models.TransferRequest{}, r.m.failErr
	}
	return r.conditional(id, models.RequestApproved, func(req *models.TransferRequest) {
		now := r.m.now()
		req.Status, req.CompletedAt, req.RejectionReason = models.RequestFailed, &now, &reason
	})
}

func (r memRequests) Complete(_ context.Context, id int64, txHash string, entry models.TransferHistory) (models.TransferRequest, error) {
	return r.conditional(id, models.RequestApproved, func(req *models.TransferRequest) {
		now := r.m.now()
		req.Status, req.CompletedAt, req.TxHash = models.RequestCompleted, &now, &txHash
		entry.ID = r.m.id()
		entry.CreatedAt = now
		r.m.history = append(r.m.history, &entry)
	})
}

func (r memRequests) list(match func(*models.TransferRequest) bool) []models.TransferRequest {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.TransferRequest{}
	for _, req := range r.m.requests {
		if match(req) {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memRequests) ListByUser(_ context.Context, userID int64, status string) ([]models.TransferRequest, error) {
	return r.list(func(req *models.TransferRequest) bool {
		return req.FromUserID == userID && (status == "" || req.Status == status)
	}), nil
}

func (r memRequests) ListByAdmin(_ context.Context, adminID int64, status string) ([]models.TransferRequest, error) {
	return r.list(func(req *models.TransferRequest) bool {
		return req.ToAdminID == adminID && (status == "" || req.Status == status)
	}), nil
}

func (r memRequests) ListApprovedBefore(_ context.Context, before time.Time, limit int) ([]models.TransferRequest, error) {
	out := r.list(func(req *models.TransferRequest) bool {
		return req.Status == models.RequestApproved && req.RespondedAt != nil && req.RespondedAt.Before(before)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memHistory struct{ m *memStore }

func (r memHistory) Create(_ context.Context, e models.TransferHistory) (models.TransferHistory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, h := range r.m.history {
		if h.TxHash == e.TxHash {
			return models.TransferHistory{}, repository.ErrDuplicate
		}
	}
	e.ID = r.m.id()
	e.CreatedAt = r.m.now()
	r.m.history = append(r.m.history, &e)
	return e, nil
}

func (r memHistory) UpdateStatus(_ context.Context, txHash, status string, info *models.BlockInfo) (*models.TransferHistory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, h := range r.m.history {
		if h.TxHash != txHash || h.Status != models.HistoryPending {
			continue
		}
		h.Status = status
		if info != nil {
			h.BlockNumber, h.GasUsed = &info.BlockNumber, &info.GasUsed
			h.GasPrice.Decimal, h.GasPrice.Valid = info.GasPrice, true
		}
		row := *h
		return &row, nil
	}
	return nil, nil
}

func (r memHistory) ListByAddress(_ context.Context, address string, limit int) ([]models.TransferHistory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.TransferHistory{}
	for i := len(r.m.history) - 1; i >= 0 && len(out) < limit; i-- {
		if r.m.history[i].UserAddress == address {
			out = append(out, *r.m.history[i])
		}
	}
	return out, nil
}

func (r memHistory) ListPending(_ context.Context, limit int) ([]models.TransferHistory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.TransferHistory{}
	for _, h := range r.m.history {
		if h.Status == models.HistoryPending {
			out = append(out, *h)
		}
	}
	// never checked first, then least recently checked
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CheckedAt, out[j].CheckedAt
		if a == nil || b == nil {
			return a == nil && b != nil
		}
		return a.Before(*b)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memHistory) MarkChecked(_ context.Context, ids []int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.checks++
	// pass counter keeps ordering strict under a frozen clock
	at := r.m.now().Add(time.Duration(r.m.checks) * time.Nanosecond)
	for _, id := range ids {
		for _, h := range r.m.history {
			if h.ID == id && h.Status == models.HistoryPending {
				h.CheckedAt = &at
			}
		}
	}
	return nil
}

type memAudit struct{ m *memStore }

func (r memAudit) Insert(_ context.Context, e models.AuditEntry) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.auditErr != nil {
		return r.m.auditErr
	}
	r.m.audit = append(r.m.audit, e)
	return nil
}

type memContacts struct{ m *memStore }

func (r memContacts) List(_ context.Context, owner string) ([]models.Contact, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Contact{}
	for _, c := range r.m.contacts {
		if c.UserAddress == owner {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memContacts) Create(_ context.Context, c models.Contact) (models.Contact, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.contacts {
		if existing.UserAddress == c.UserAddress && existing.ContactAddress == c.ContactAddress {
			return models.Contact{}, repository.ErrDuplicate
		}
	}
	c.ID = r.m.id()
	c.CreatedAt = r.m.now()
	r.m.contacts[c.ID] = &c
	return c, nil
}

func (r memContacts) Get(_ context.Context, id int64) (models.Contact, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if c, ok := r.m.contacts[id]; ok {
		return *c, nil
	}
	return models.Contact{}, repository.ErrNotFound
}

func (r memContacts) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.contacts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.contacts, id)
	return nil
}

var errStorageDown = errors.New("connection refused")
