// AngelaMos | 2026
// validate.go

package config

import (
	"errors"
	"slices"
)

type rule struct {
	broken func(c *Config) bool
	msg    string
}

var rules = []rule{
	{func(c *Config) bool { return c.Database.URL == "" }, "DATABASE_URL is required"},
	{func(c *Config) bool { return c.Redis.URL == "" }, "REDIS_URL is required"},
	{func(c *Config) bool { return c.JWT.PrivateKeyPath == "" }, "JWT_PRIVATE_KEY_PATH is required"},
	{func(c *Config) bool { return c.JWT.PublicKeyPath == "" }, "JWT_PUBLIC_KEY_PATH is required"},
	{
		func(c *Config) bool {
			return c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*")
		},
		"CORS wildcard '*' cannot be used with allow_credentials",
	},
	{
		func(c *Config) bool { return c.IsProduction() && c.Otel.Enabled && c.Otel.Insecure },
		"OTEL_INSECURE must be false in production",
	},
	{func(c *Config) bool { return c.Server.ReadTimeout <= 0 }, "server.read_timeout must be positive"},
	{func(c *Config) bool { return c.Server.WriteTimeout <= 0 }, "server.write_timeout must be positive"},
	{func(c *Config) bool { return c.Activity.MaxEntries <= 0 }, "activity.max_entries must be positive"},
	{
		func(c *Config) bool {
			for _, n := range c.RateLimit.PlanRequests {
				if n <= 0 {
					return true
				}
			}
			return false
		},
		"rate_limit.plan_requests values must be positive",
	},
}

// validate reports every broken rule at once.
func validate(c *Config) error {
	var errs []error
	for _, r := range rules {
		if r.broken(c) {
			errs = append(errs, errors.New(r.msg))
		}
	}
	return errors.Join(errs...)
}
