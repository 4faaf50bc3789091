package domain

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount the way the console displays it: two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type ListQuery struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}

// Values encodes the query the way the backend list endpoints expect it.
// Zero fields are omitted.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	return v
}

// ParseListQuery is the inverse of Values.
func ParseListQuery(v url.Values) ListQuery {
	page, _ := strconv.Atoi(v.Get("page"))
	size, _ := strconv.Atoi(v.Get("page_size"))
	return ListQuery{
		Page:     page,
		PageSize: size,
		Keyword:  v.Get("keyword"),
		Status:   v.Get("status"),
	}
}
