// AngelaMos | 2026
// plan.go

// Package plan holds the subscription tiers and the quotas each one grants.
package plan

import (
	"strings"
)

type ID string

const (
	Free       ID = "free"
	Basic      ID = "basic"
	Pro        ID = "pro"
	Business   ID = "business"
	Enterprise ID = "enterprise"
)

// Resource identifies a countable, quota-bearing resource.
type Resource string

const (
	ResourceObras    Resource = "obras"
	ResourceUsuarios Resource = "usuarios"
	ResourceCreditos Resource = "creditos"
)

type Limits struct {
	Plan           ID   `json:"plan"`
	MaxUsers       int  `json:"max_users"`
	MaxObras       int  `json:"max_obras"`
	MaxCredits     int  `json:"max_credits"`
	UnlimitedObras bool `json:"unlimited_obras"`
	UnlimitedUsers bool `json:"unlimited_users"`
}

var table = map[ID]Limits{
	Free: {
		Plan:       Free,
		MaxUsers:   1,
		MaxObras:   1,
		MaxCredits: 50,
	},
	Basic: {
		Plan:       Basic,
		MaxUsers:   3,
		MaxObras:   5,
		MaxCredits: 500,
	},
	Pro: {
		Plan:       Pro,
		MaxUsers:   10,
		MaxObras:   20,
		MaxCredits: 2000,
	},
	Business: {
		Plan:           Business,
		MaxUsers:       50,
		MaxObras:       0,
		MaxCredits:     10000,
		UnlimitedObras: true,
	},
	Enterprise: {
		Plan:           Enterprise,
		MaxCredits:     100000,
		UnlimitedObras: true,
		UnlimitedUsers: true,
	},
}

// All lists the tiers from most to least restrictive.
var All = []ID{Free, Basic, Pro, Business, Enterprise}

// GetLimits returns the quota record for id. Matching ignores case and
// surrounding whitespace; anything unrecognised gets the free tier.
func GetLimits(id string) Limits {
	if parsed, ok := Parse(id); ok {
		return table[parsed]
	}
	return table[Free]
}

func Parse(id string) (ID, bool) {
	normalized := ID(strings.ToLower(strings.TrimSpace(id)))
	if _, ok := table[normalized]; ok {
		return normalized, true
	}
	return "", false
}

func (id ID) Valid() bool {
	_, ok := table[id]
	return ok
}

func (id ID) String() string {
	return string(id)
}

// IsAtLimit reports whether a resource already at count may not grow.
func IsAtLimit(count, quota int, unlimited bool) bool {
	return !unlimited && count >= quota
}

// ForResource returns the quota for r. limited is false for resources the
// plan does not meter.
func (l Limits) ForResource(r Resource) (quota int, unlimited, limited bool) {
	switch r {
	case ResourceObras:
		return l.MaxObras, l.UnlimitedObras, true
	case ResourceUsuarios:
		return l.MaxUsers, l.UnlimitedUsers, true
	case ResourceCreditos:
		return l.MaxCredits, false, true
	default:
		return 0, true, false
	}
}

func (l Limits) AtLimit(r Resource, count int) bool {
	quota, unlimited, limited := l.ForResource(r)
	if !limited {
		return false
	}
	return IsAtLimit(count, quota, unlimited)
}

// Remaining is -1 for unlimited resources.
func (l Limits) Remaining(r Resource, count int) int {
	quota, unlimited, limited := l.ForResource(r)
	if !limited || unlimited {
		return -1
	}
	if count >= quota {
		return 0
	}
	return quota - count
}
