package mockapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	pkgauth "github.com/GlebRadaev/proxyconsole/pkg/auth"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// Prices are quoted per unit for this many days.
	billingPeriodDays = 30
)

// account is any identity that can hold a balance: operators, agents and
// end users share one table, told apart by role.
type account struct {
	profile domain.UserProfile
	hash    string

	company    string
	contact    string
	creditLine decimal.Decimal

	agentID int64
	remark  string
}

type entryKind int

const (
	entryRecharge entryKind = iota
	entryAdjust
	entryCharge
)

type ledgerEntry struct {
	domain.Recharge
	kind entryKind
}

// Store is the in-memory state behind the mock backend.
type Store struct {
	mu   sync.RWMutex
	hash pkgauth.HashServiceInterface
	now  func() time.Time

	accounts map[int64]*account
	byName   map[string]int64
	nextID   int64

	orders      []*domain.Order
	byNumber    map[string]*domain.Order
	nextOrderID int64

	resources []domain.Resource
	regions   []domain.Region

	ledger   []ledgerEntry
	nextLine int64

	settings domain.Settings
}

// Seed describes one account created at start-up.
type Seed struct {
	Username string
	Password string
	Role     domain.Role
	Balance  decimal.Decimal
}

// DefaultSeeds are the accounts a fresh mock backend knows.
var DefaultSeeds = []Seed{
	{Username: "admin", Password: "admin123", Role: domain.RoleAdmin, Balance: decimal.Zero},
	{Username: "acme", Password: "agent123", Role: domain.RoleAgent, Balance: decimal.NewFromInt(5000)},
	{Username: "alice", Password: "user1234", Role: domain.RoleUser, Balance: decimal.NewFromInt(200)},
}

func NewStore(hash pkgauth.HashServiceInterface, now func() time.Time, seeds []Seed) (*Store, error) {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		hash:     hash,
		now:      now,
		accounts: make(map[int64]*account),
		byName:   make(map[string]int64),
		byNumber: make(map[string]*domain.Order),
		resources: []domain.Resource{
			{ID: 1, Name: "Residential 10 GB", Type: domain.OrderDynamic, TrafficGB: 10, Price: decimal.NewFromInt(30), Stock: 1000, Status: domain.StatusActive},
			{ID: 2, Name: "Residential 50 GB", Type: domain.OrderDynamic, TrafficGB: 50, Price: decimal.NewFromInt(120), Stock: 1000, Status: domain.StatusActive},
			{ID: 3, Name: "US East ISP", Type: domain.OrderStatic, Region: "us-east", Country: "US", City: "New York", Price: decimal.NewFromInt(5), Stock: 200, Status: domain.StatusActive},
			{ID: 4, Name: "DE Frankfurt DC", Type: domain.OrderStatic, Region: "eu-central", Country: "DE", City: "Frankfurt", Price: decimal.RequireFromString("3.5"), Stock: 100, Status: domain.StatusActive},
		},
		regions: []domain.Region{
			{Code: "us-east", Name: "US East", Country: "US", City: "New York"},
			{Code: "eu-central", Name: "EU Central", Country: "DE", City: "Frankfurt"},
		},
		settings: domain.Settings{
			SiteName:          "Proxy Console",
			MinRecharge:       decimal.NewFromInt(10),
			DefaultAgentLimit: decimal.NewFromInt(1000),
		},
	}

	var agentID int64
	for _, seed := range seeds {
		hashed, err := hash.HashPassword(seed.Password)
		if err != nil {
			return nil, fmt.Errorf("can't hash seed password for %s: %w", seed.Username, err)
		}
		acc := s.insert(seed.Username, hashed, seed.Role, seed.Balance)
		switch seed.Role {
		case domain.RoleAgent:
			acc.creditLine = s.settings.DefaultAgentLimit
			agentID = acc.profile.ID
		case domain.RoleUser:
			acc.agentID = agentID
		}
	}
	return s, nil
}

func (s *Store) insert(username, hash string, role domain.Role, balance decimal.Decimal) *account {
	s.nextID++
	now := s.now().UTC()
	acc := &account{
		profile: domain.UserProfile{
			ID:        s.nextID,
			Username:  username,
			Role:      role,
			Balance:   balance,
			Status:    domain.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		},
		hash: hash,
	}
	s.accounts[acc.profile.ID] = acc
	s.byName[username] = acc.profile.ID
	return acc
}

// Authenticate checks credentials. Disabled accounts can't sign in.
func (s *Store) Authenticate(username, password string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok || !s.hash.ComparePassword(s.accounts[id].hash, password) {
		return nil, newError(CodeBadCredentials, "invalid username or password")
	}
	acc := s.accounts[id]
	if acc.profile.Status != domain.StatusActive {
		return nil, newError(CodeAccountDisabled, "account is disabled")
	}
	profile := acc.profile
	return &profile, nil
}

func (s *Store) Profile(id int64) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, notFound("account", id)
	}
	profile := acc.profile
	return &profile, nil
}

func (s *Store) UpdateProfile(id int64, upd dto.ProfileUpdateDTO) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, notFound("account", id)
	}
	if upd.Nickname != nil {
		acc.profile.Nickname = *upd.Nickname
	}
	if upd.Email != nil {
		acc.profile.Email = *upd.Email
	}
	if upd.Phone != nil {
		acc.profile.Phone = *upd.Phone
	}
	acc.profile.UpdatedAt = s.now().UTC()
	profile := acc.profile
	return &profile, nil
}

func (s *Store) ChangePassword(id int64, oldPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return notFound("account", id)
	}
	if !s.hash.ComparePassword(acc.hash, oldPassword) {
		return newError(CodeWrongPassword, "old password is incorrect")
	}
	hashed, err := s.hash.HashPassword(newPassword)
	if err != nil {
		return invalid("%v", err)
	}
	acc.hash = hashed
	return nil
}

func (s *Store) Users(q domain.ListQuery, agentID int64) domain.Page[domain.User] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.find(domain.RoleUser, q, func(a *account) bool {
		return agentID == 0 || a.agentID == agentID
	})
	list, page := paginate(matched, q)
	users := make([]domain.User, len(list))
	for i, a := range list {
		users[i] = a.user()
	}
	return domain.Page[domain.User]{List: users, Total: int64(len(matched)), Page: page.Page, PageSize: page.PageSize}
}

func (s *Store) User(id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, err := s.get(domain.RoleUser, id)
	if err != nil {
		return nil, err
	}
	u := acc.user()
	return &u, nil
}

func (s *Store) CreateUser(req dto.CreateUserDTO) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid("%v", err)
	}
	hashed, err := s.hash.HashPassword(req.Password)
	if err != nil {
		return nil, invalid("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[req.Username]; taken {
		return nil, newError(CodeDuplicate, "username %s already exists", req.Username)
	}
	if req.AgentID != 0 {
		if _, err := s.get(domain.RoleAgent, req.AgentID); err != nil {
			return nil, err
		}
	}
	acc := s.insert(req.Username, hashed, domain.RoleUser, decimal.Zero)
	acc.profile.Email = req.Email
	acc.profile.Phone = req.Phone
	acc.agentID = req.AgentID
	acc.remark = req.Remark
	u := acc.user()
	return &u, nil
}

func (s *Store) UpdateUser(id int64, req dto.UpdateUserDTO) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.get(domain.RoleUser, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		acc.profile.Email = *req.Email
	}
	if req.Phone != nil {
		acc.profile.Phone = *req.Phone
	}
	if req.Remark != nil {
		acc.remark = *req.Remark
	}
	acc.profile.UpdatedAt = s.now().UTC()
	u := acc.user()
	return &u, nil
}

func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.get(domain.RoleUser, id)
	if err != nil {
		return err
	}
	for _, o := range s.orders {
		if o.UserID == id && o.Status == domain.OrderActive && o.ExpiresAt.After(s.now()) {
			return newError(CodeForbidden, "user %d still has active orders", id)
		}
	}
	delete(s.byName, acc.profile.Username)
	delete(s.accounts, id)
	return nil
}

func (s *Store) Agents(q domain.ListQuery) domain.Page[domain.Agent] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.find(domain.RoleAgent, q, nil)
	list, page := paginate(matched, q)
	agents := make([]domain.Agent, len(list))
	for i, a := range list {
		agents[i] = s.agent(a)
	}
	return domain.Page[domain.Agent]{List: agents, Total: int64(len(matched)), Page: page.Page, PageSize: page.PageSize}
}

func (s *Store) Agent(id int64) (*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, err := s.get(domain.RoleAgent, id)
	if err != nil {
		return nil, err
	}
	a := s.agent(acc)
	return &a, nil
}

func (s *Store) CreateAgent(req dto.CreateAgentDTO) (*domain.Agent, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid("%v", err)
	}
	if req.CreditLine.IsNegative() {
		return nil, invalid("credit line must not be negative")
	}
	hashed, err := s.hash.HashPassword(req.Password)
	if err != nil {
		return nil, invalid("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[req.Username]; taken {
		return nil, newError(CodeDuplicate, "username %s already exists", req.Username)
	}
	acc := s.insert(req.Username, hashed, domain.RoleAgent, decimal.Zero)
	acc.company = req.Company
	acc.contact = req.Contact
	acc.profile.Email = req.Email
	acc.profile.Phone = req.Phone
	acc.creditLine = req.CreditLine
	if req.CreditLine.IsZero() {
		acc.creditLine = s.settings.DefaultAgentLimit
	}
	a := s.agent(acc)
	return &a, nil
}

func (s *Store) UpdateAgent(id int64, req dto.UpdateAgentDTO) (*domain.Agent, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid("%v", err)
	}
	if req.CreditLine != nil && req.CreditLine.IsNegative() {
		return nil, invalid("credit line must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.get(domain.RoleAgent, id)
	if err != nil {
		return nil, err
	}
	if req.Company != nil {
		acc.company = *req.Company
	}
	if req.Contact != nil {
		acc.contact = *req.Contact
	}
	if req.Email != nil {
		acc.profile.Email = *req.Email
	}
	if req.Phone != nil {
		acc.profile.Phone = *req.Phone
	}
	if req.CreditLine != nil {
		acc.creditLine = *req.CreditLine
	}
	acc.profile.UpdatedAt = s.now().UTC()
	a := s.agent(acc)
	return &a, nil
}

func (s *Store) SetStatus(role domain.Role, id int64, status domain.AccountStatus) error {
	if err := validate.Struct(dto.StatusDTO{Status: status}); err != nil {
		return invalid("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.get(role, id)
	if err != nil {
		return err
	}
	acc.profile.Status = status
	acc.profile.UpdatedAt = s.now().UTC()
	return nil
}

// Recharge credits an account and records the top-up.
func (s *Store) Recharge(role domain.Role, id int64, req dto.RechargeDTO) (*domain.Recharge, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Amount.LessThan(s.settings.MinRecharge) || !req.Amount.IsPositive() {
		return nil, invalid("recharge amount must be at least %s", domain.FormatMoney(s.settings.MinRecharge))
	}
	acc, err := s.get(role, id)
	if err != nil {
		return nil, err
	}
	return s.move(acc, req.Amount, req.Remark, entryRecharge), nil
}

// Adjust moves a balance by a signed amount. Users can't go below zero;
// agents can draw on their credit line.
func (s *Store) Adjust(role domain.Role, id int64, req dto.AdjustBalanceDTO) (*domain.Recharge, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid("%v", err)
	}
	if req.Amount.IsZero() {
		return nil, invalid("amount must not be zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.get(role, id)
	if err != nil {
		return nil, err
	}
	if acc.balanceAfter(req.Amount).LessThan(acc.creditLine.Neg()) {
		return nil, newError(CodeInsufficientBalance, "insufficient balance")
	}
	return s.move(acc, req.Amount, req.Reason, entryAdjust), nil
}

func (s *Store) move(acc *account, amount decimal.Decimal, remark string, kind entryKind) *domain.Recharge {
	now := s.now().UTC()
	acc.profile.Balance = acc.balanceAfter(amount)
	acc.profile.UpdatedAt = now

	s.nextLine++
	entry := ledgerEntry{
		Recharge: domain.Recharge{
			ID:        s.nextLine,
			AccountID: acc.profile.ID,
			Amount:    amount,
			Balance:   acc.profile.Balance,
			Remark:    remark,
			CreatedAt: now,
		},
		kind: kind,
	}
	s.ledger = append(s.ledger, entry)
	r := entry.Recharge
	return &r
}

func (s *Store) get(role domain.Role, id int64) (*account, error) {
	acc, ok := s.accounts[id]
	if !ok || acc.profile.Role != role {
		return nil, notFound(string(role), id)
	}
	return acc, nil
}

func (s *Store) find(role domain.Role, q domain.ListQuery, keep func(*account) bool) []*account {
	keyword := strings.ToLower(q.Keyword)
	var matched []*account
	for _, a := range s.accounts {
		if a.profile.Role != role {
			continue
		}
		if q.Status != "" && string(a.profile.Status) != q.Status {
			continue
		}
		if keyword != "" && !a.matches(keyword) {
			continue
		}
		if keep != nil && !keep(a) {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].profile.ID < matched[j].profile.ID })
	return matched
}

func (s *Store) agent(a *account) domain.Agent {
	var users int64
	for _, u := range s.accounts {
		if u.profile.Role == domain.RoleUser && u.agentID == a.profile.ID {
			users++
		}
	}
	return domain.Agent{
		ID:         a.profile.ID,
		Username:   a.profile.Username,
		Company:    a.company,
		Contact:    a.contact,
		Email:      a.profile.Email,
		Phone:      a.profile.Phone,
		Balance:    a.profile.Balance,
		CreditLine: a.creditLine,
		Status:     a.profile.Status,
		UserCount:  users,
		CreatedAt:  a.profile.CreatedAt,
		UpdatedAt:  a.profile.UpdatedAt,
	}
}

func (a *account) user() domain.User {
	return domain.User{
		ID:        a.profile.ID,
		Username:  a.profile.Username,
		Email:     a.profile.Email,
		Phone:     a.profile.Phone,
		AgentID:   a.agentID,
		Balance:   a.profile.Balance,
		Status:    a.profile.Status,
		Remark:    a.remark,
		CreatedAt: a.profile.CreatedAt,
		UpdatedAt: a.profile.UpdatedAt,
	}
}

func (a *account) balanceAfter(amount decimal.Decimal) decimal.Decimal {
	return a.profile.Balance.Add(amount)
}

func (a *account) matches(keyword string) bool {
	for _, field := range []string{a.profile.Username, a.profile.Email, a.profile.Phone, a.company} {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, q domain.ListQuery) ([]T, domain.ListQuery) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	start := (q.Page - 1) * q.PageSize
	if start >= len(items) {
		return []T{}, q
	}
	end := start + q.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], q
}
