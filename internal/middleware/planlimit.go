// AngelaMos | 2026
// planlimit.go

package middleware

import (
	"maps"
	"net/http"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"

	"github.com/metaconstrutor/api/internal/plan"
)

// PlanBudget is the request allowance one organization gets per minute.
type PlanBudget struct {
	RequestsPerMinute int
	Burst             int
}

func (b PlanBudget) limit() redis_rate.Limit {
	return PerMinute(b.RequestsPerMinute, b.Burst)
}

var DefaultPlanBudgets = map[plan.ID]PlanBudget{
	plan.Free:       {RequestsPerMinute: 60, Burst: 10},
	plan.Basic:      {RequestsPerMinute: 180, Burst: 30},
	plan.Pro:        {RequestsPerMinute: 600, Burst: 100},
	plan.Business:   {RequestsPerMinute: 1800, Burst: 300},
	plan.Enterprise: {RequestsPerMinute: 6000, Burst: 1000},
}

// PlanBudgetsWithOverrides copies DefaultPlanBudgets and replaces the
// per-minute allowance of each plan named in overrides. Unknown plan ids are
// returned so the caller can log them.
func PlanBudgetsWithOverrides(overrides map[string]int) (map[plan.ID]PlanBudget, []string) {
	budgets := maps.Clone(DefaultPlanBudgets)
	var unknown []string

	for id, rpm := range overrides {
		p, ok := plan.Parse(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		b := budgets[p]
		b.RequestsPerMinute = rpm
		if b.Burst > rpm {
			b.Burst = rpm
		}
		budgets[p] = b
	}

	return budgets, unknown
}

// budgetFor resolves the allowance for a plan. Plans missing from budgets
// get the free allowance, mirroring plan.GetLimits.
func budgetFor(budgets map[plan.ID]PlanBudget, id string) (plan.ID, PlanBudget) {
	p, ok := plan.Parse(id)
	if !ok {
		p = plan.Free
	}
	if b, ok := budgets[p]; ok {
		return p, b
	}
	return plan.Free, budgets[plan.Free]
}

// PlanRateLimiter throttles authenticated traffic per organization, sized by
// the organization's plan. It must run after Authenticator.
func PlanRateLimiter(
	rdb *redis.Client,
	budgets map[plan.ID]PlanBudget,
) func(http.Handler) http.Handler {
	store := newLimitStore(rdb)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, budget := budgetFor(budgets, GetPlan(r.Context()))
			limit := budget.limit()
			key := KeyByOrganization(r)

			res := store.allow(r.Context(), key, limit)

			w.Header().Set("X-RateLimit-Plan", p.String())
			setRateLimitHeaders(w, res, limit)

			if res.Allowed == 0 {
				writeRateLimitExceeded(w, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
