package query

import (
	"strconv"
	"strings"

	"github.com/lumocms/lumo-backend/internal/filter"
)

// Raw parameter keys as they appear in the query string
const (
	ParamLimit    = "limit"
	ParamOffset   = "offset"
	ParamOrders   = "orders"
	ParamFields   = "fields"
	ParamIDs      = "ids"
	ParamFilters  = "filters"
	ParamDraftKey = "draftKey"
)

// RawParams is the transport-independent view of request parameters
type RawParams map[string]string

// Order is one resolved sort directive over a storage column
type Order struct {
	Column string
	Desc   bool
}

// DefaultOrder is newest-first by creation time
var DefaultOrder = Order{Column: "created_at", Desc: true}

// orderable fields and their columns
var orderColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"publishedAt": "published_at",
	"revisedAt":   "revised_at",
	"id":          "id",
}

// Options are validated, bounded list/get parameters
type Options struct {
	Limit        int
	Offset       int
	Orders       []Order
	Fields       []string
	IDs          []string
	FilterGroups []filter.Group
	DraftKey     string
}

// Resolver validates and bounds raw request parameters
type Resolver struct {
	defaultLimit int
	maxLimit     int
}

// NewResolver creates a resolver with the configured list bounds
func NewResolver(defaultLimit, maxLimit int) *Resolver {
	return &Resolver{defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Resolve turns raw parameters into Options. Bad numeric input falls
// back to defaults rather than erroring; only a malformed filter
// string fails the request.
func (r *Resolver) Resolve(params RawParams) (*Options, error) {
	opts := &Options{
		Limit:    r.resolveLimit(params[ParamLimit]),
		Offset:   resolveOffset(params[ParamOffset]),
		Orders:   resolveOrders(params[ParamOrders]),
		Fields:   splitCSV(params[ParamFields]),
		IDs:      splitCSV(params[ParamIDs]),
		DraftKey: params[ParamDraftKey],
	}

	if raw := params[ParamFilters]; raw != "" {
		groups, err := filter.Parse(raw)
		if err != nil {
			return nil, err
		}
		opts.FilterGroups = groups
	}

	return opts, nil
}

func (r *Resolver) resolveLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if raw == "" || err != nil {
		return r.defaultLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > r.maxLimit {
		return r.maxLimit
	}
	return limit
}

func resolveOffset(raw string) int {
	offset, err := strconv.Atoi(raw)
	if raw == "" || err != nil || offset < 0 {
		return 0
	}
	return offset
}

// resolveOrders parses "field,-field,..." directives. Unrecognized
// field names are dropped; an empty result falls back to DefaultOrder.
func resolveOrders(raw string) []Order {
	var orders []Order
	for _, entry := range splitCSV(raw) {
		desc := false
		if strings.HasPrefix(entry, "-") {
			desc = true
			entry = entry[1:]
		}
		col, ok := orderColumns[entry]
		if !ok {
			continue
		}
		orders = append(orders, Order{Column: col, Desc: desc})
	}
	if len(orders) == 0 {
		return []Order{DefaultOrder}
	}
	return orders
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
