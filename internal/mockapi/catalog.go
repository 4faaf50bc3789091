package mockapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// defaultSeriesDays is the range a statistics query covers without from/to.
const defaultSeriesDays = 7

// OrderRequest is the common shape of dynamic and static purchases.
type OrderRequest struct {
	Type       domain.OrderType
	UserID     int64
	ResourceID int64
	Region     string
	Quantity   int
	Duration   int
}

func (s *Store) Orders(q domain.ListQuery, typ domain.OrderType) domain.Page[domain.Order] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keyword := strings.ToLower(q.Keyword)
	var matched []domain.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		o := s.view(s.orders[i])
		if typ != "" && o.Type != typ {
			continue
		}
		if q.Status != "" && string(o.Status) != q.Status {
			continue
		}
		if keyword != "" && !strings.Contains(o.OrderNumber, keyword) && !strings.Contains(strings.ToLower(o.Username), keyword) {
			continue
		}
		matched = append(matched, o)
	}
	list, page := paginate(matched, q)
	return domain.Page[domain.Order]{List: list, Total: int64(len(matched)), Page: page.Page, PageSize: page.PageSize}
}

func (s *Store) Order(number string) (*domain.Order, error) {
	if !validate.IsLuna(number) {
		return nil, invalid("invalid order number")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.byNumber[number]
	if !ok {
		return nil, notFound("order", number)
	}
	v := s.view(o)
	return &v, nil
}

// CreateOrder charges the user and opens an order numbered with a Luhn
// check digit.
func (s *Store) CreateOrder(req OrderRequest) (*domain.Order, error) {
	if req.Quantity <= 0 || req.Duration <= 0 {
		return nil, invalid("quantity and duration must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.get(domain.RoleUser, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.profile.Status != domain.StatusActive {
		return nil, newError(CodeAccountDisabled, "user %d is disabled", req.UserID)
	}
	res, err := s.resource(req.ResourceID, req.Type)
	if err != nil {
		return nil, err
	}
	if req.Type == domain.OrderStatic {
		if req.Region == "" {
			req.Region = res.Region
		}
		if req.Region != res.Region {
			return nil, invalid("resource %d is not in region %s", res.ID, req.Region)
		}
		if res.Stock < req.Quantity {
			return nil, newError(CodeOutOfStock, "only %d addresses left in %s", res.Stock, res.Region)
		}
	}

	amount := price(res.Price, req.Quantity, req.Duration)
	if user.balanceAfter(amount.Neg()).IsNegative() {
		return nil, newError(CodeInsufficientBalance, "insufficient balance")
	}

	now := s.now().UTC()
	s.nextOrderID++
	number, err := validate.WithCheckDigit(fmt.Sprintf("%s%06d", now.Format("20060102"), s.nextOrderID))
	if err != nil {
		return nil, newError(CodeInternal, "can't number order: %v", err)
	}
	if req.Type == domain.OrderStatic {
		res.Stock -= req.Quantity
	}
	s.move(user, amount.Neg(), "order "+number, entryCharge)

	o := &domain.Order{
		ID:          s.nextOrderID,
		OrderNumber: number,
		UserID:      user.profile.ID,
		Type:        req.Type,
		ResourceID:  res.ID,
		Region:      req.Region,
		Quantity:    req.Quantity,
		Duration:    req.Duration,
		Amount:      amount,
		Status:      domain.OrderActive,
		ExpiresAt:   now.AddDate(0, 0, req.Duration),
		CreatedAt:   now,
	}
	s.orders = append(s.orders, o)
	s.byNumber[number] = o
	v := s.view(o)
	return &v, nil
}

// Renew extends an order from its expiry, or from now if it already lapsed.
func (s *Store) Renew(number string, req dto.RenewOrderDTO) (*domain.Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid("%v", err)
	}
	if !validate.IsLuna(number) {
		return nil, invalid("invalid order number")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byNumber[number]
	if !ok {
		return nil, notFound("order", number)
	}
	user, err := s.get(domain.RoleUser, o.UserID)
	if err != nil {
		return nil, err
	}
	res, err := s.resource(o.ResourceID, o.Type)
	if err != nil {
		return nil, err
	}
	amount := price(res.Price, o.Quantity, req.Duration)
	if user.balanceAfter(amount.Neg()).IsNegative() {
		return nil, newError(CodeInsufficientBalance, "insufficient balance")
	}
	s.move(user, amount.Neg(), "renew "+number, entryCharge)

	from := s.now().UTC()
	if o.ExpiresAt.After(from) {
		from = o.ExpiresAt
	}
	o.ExpiresAt = from.AddDate(0, 0, req.Duration)
	o.Duration += req.Duration
	o.Amount = o.Amount.Add(amount)
	o.Status = domain.OrderActive
	v := s.view(o)
	return &v, nil
}

func (s *Store) DynamicPackages() []domain.Resource {
	return s.catalog(func(r domain.Resource) bool { return r.Type == domain.OrderDynamic })
}

func (s *Store) StaticResources(region string) []domain.Resource {
	return s.catalog(func(r domain.Resource) bool {
		return r.Type == domain.OrderStatic && (region == "" || r.Region == region)
	})
}

func (s *Store) Regions() []domain.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Region(nil), s.regions...)
}

func (s *Store) catalog(keep func(domain.Resource) bool) []domain.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []domain.Resource{}
	for _, r := range s.resources {
		if keep(r) {
			list = append(list, r)
		}
	}
	return list
}

func (s *Store) resource(id int64, typ domain.OrderType) (*domain.Resource, error) {
	for i := range s.resources {
		if s.resources[i].ID == id && s.resources[i].Type == typ {
			return &s.resources[i], nil
		}
	}
	return nil, notFound(string(typ)+" resource", id)
}

// view fills derived order fields: the owner's name and lapsed status.
func (s *Store) view(o *domain.Order) domain.Order {
	v := *o
	if acc, ok := s.accounts[o.UserID]; ok {
		v.Username = acc.profile.Username
	}
	if v.Status == domain.OrderActive && !v.ExpiresAt.After(s.now()) {
		v.Status = domain.OrderExpired
	}
	return v
}

func (s *Store) Summary() domain.DashboardSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := domain.DashboardSummary{
		TodayConsumption: decimal.Zero,
		TodayRecharge:    decimal.Zero,
		TotalBalance:     decimal.Zero,
	}
	for _, a := range s.accounts {
		switch a.profile.Role {
		case domain.RoleUser:
			sum.TotalUsers++
			sum.TotalBalance = sum.TotalBalance.Add(a.profile.Balance)
		case domain.RoleAgent:
			sum.TotalAgents++
			sum.TotalBalance = sum.TotalBalance.Add(a.profile.Balance)
		}
	}
	today := s.now().UTC().Format(dateLayout)
	for _, o := range s.orders {
		if s.view(o).Status == domain.OrderActive {
			sum.ActiveOrders++
		}
	}
	for _, e := range s.ledger {
		if e.CreatedAt.Format(dateLayout) != today {
			continue
		}
		switch e.kind {
		case entryRecharge:
			sum.TodayRecharge = sum.TodayRecharge.Add(e.Amount)
		case entryCharge:
			sum.TodayConsumption = sum.TodayConsumption.Add(e.Amount.Neg())
		}
	}
	return sum
}

// Consumption is money spent on orders and renewals per day.
func (s *Store) Consumption(q dto.StatsQueryDTO) ([]domain.SeriesPoint, error) {
	return s.series(q, func(e ledgerEntry) (decimal.Decimal, bool) {
		return e.Amount.Neg(), e.kind == entryCharge
	})
}

// Recharges is money credited by recharges per day.
func (s *Store) Recharges(q dto.StatsQueryDTO) ([]domain.SeriesPoint, error) {
	return s.series(q, func(e ledgerEntry) (decimal.Decimal, bool) {
		return e.Amount, e.kind == entryRecharge
	})
}

func (s *Store) series(q dto.StatsQueryDTO, pick func(ledgerEntry) (decimal.Decimal, bool)) ([]domain.SeriesPoint, error) {
	from, to, err := s.dateRange(q)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	points := make(map[string]*domain.SeriesPoint)
	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		points[key] = &domain.SeriesPoint{Date: key, Amount: decimal.Zero}
		days = append(days, key)
	}
	for _, e := range s.ledger {
		p, ok := points[e.CreatedAt.UTC().Format(dateLayout)]
		if !ok {
			continue
		}
		if amount, ok := pick(e); ok {
			p.Amount = p.Amount.Add(amount)
			p.Count++
		}
	}

	out := make([]domain.SeriesPoint, len(days))
	for i, d := range days {
		out[i] = *points[d]
	}
	return out, nil
}

func (s *Store) dateRange(q dto.StatsQueryDTO) (time.Time, time.Time, error) {
	if err := validate.Struct(q); err != nil {
		return time.Time{}, time.Time{}, invalid("%v", err)
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	to, from := today, today.AddDate(0, 0, -(defaultSeriesDays - 1))
	if q.To != "" {
		to, _ = time.Parse(dateLayout, q.To)
		if q.From == "" {
			from = to.AddDate(0, 0, -(defaultSeriesDays - 1))
		}
	}
	if q.From != "" {
		from, _ = time.Parse(dateLayout, q.From)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, invalid("from must not be after to")
	}
	if to.Sub(from) > 366*24*time.Hour {
		return time.Time{}, time.Time{}, invalid("range must not exceed one year")
	}
	return from, to, nil
}

func (s *Store) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) UpdateSettings(req dto.UpdateSettingsDTO) (*domain.Settings, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid("%v", err)
	}
	if req.MinRecharge != nil && req.MinRecharge.IsNegative() {
		return nil, invalid("min recharge must not be negative")
	}
	if req.DefaultAgentLimit != nil && req.DefaultAgentLimit.IsNegative() {
		return nil, invalid("default agent limit must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.SiteName != nil {
		s.settings.SiteName = *req.SiteName
	}
	if req.SupportEmail != nil {
		s.settings.SupportEmail = *req.SupportEmail
	}
	if req.MinRecharge != nil {
		s.settings.MinRecharge = *req.MinRecharge
	}
	if req.DefaultAgentLimit != nil {
		s.settings.DefaultAgentLimit = *req.DefaultAgentLimit
	}
	if req.AllowRegister != nil {
		s.settings.AllowRegister = *req.AllowRegister
	}
	if req.Announcement != nil {
		s.settings.Announcement = *req.Announcement
	}
	settings := s.settings
	return &settings, nil
}

func price(unit decimal.Decimal, quantity, days int) decimal.Decimal {
	return unit.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(billingPeriodDays)).
		Round(2)
}
