// AngelaMos | 2026
// defaults.go

package config

var defaults = map[string]map[string]any{
	"app": {
		"name":        "Meta Construtor API",
		"version":     "1.0.0",
		"environment": EnvDevelopment,
	},
	"server": {
		"host":             "0.0.0.0",
		"port":             8080,
		"read_timeout":     "30s",
		"write_timeout":    "30s",
		"idle_timeout":     "120s",
		"shutdown_timeout": "15s",
	},
	"database": {
		"max_open_conns":     25,
		"max_idle_conns":     5,
		"conn_max_lifetime":  "1h",
		"conn_max_idle_time": "30m",
		"auto_migrate":       false,
	},
	"redis": {
		"pool_size":      10,
		"min_idle_conns": 5,
	},
	"jwt": {
		"access_token_expire":  "15m",
		"refresh_token_expire": "168h",
		"issuer":               "metaconstrutor",
		"audience":             "metaconstrutor-api",
		"private_key_path":     "keys/private.pem",
		"public_key_path":      "keys/public.pem",
	},
	"rate_limit": {
		"requests": 100,
		"window":   "1m",
		"burst":    20,
	},
	"cors": {
		"allowed_origins": []string{"http://localhost:3000"},
		"allowed_methods": []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		"allowed_headers": []string{
			"Accept", "Authorization", "Content-Type", "X-Request-ID",
		},
		"allow_credentials": true,
		"max_age":           300,
	},
	"log": {
		"level":  "info",
		"format": "json",
	},
	"otel": {
		"enabled":      false,
		"insecure":     true,
		"sample_rate":  0.1,
		"service_name": "metaconstrutor-api",
	},
	"activity": {
		"max_entries": 200,
		"ttl":         "720h",
	},
}

// envKeys lists the environment variables Load honours. Anything else in
// the environment is ignored.
var envKeys = map[string]string{
	"ENVIRONMENT": "app.environment",

	"HOST": "server.host",
	"PORT": "server.port",

	"DATABASE_URL":          "database.url",
	"DATABASE_AUTO_MIGRATE": "database.auto_migrate",

	"REDIS_URL": "redis.url",

	"JWT_PRIVATE_KEY_PATH":     "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":      "jwt.public_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":  "jwt.access_token_expire",
	"JWT_REFRESH_TOKEN_EXPIRE": "jwt.refresh_token_expire",
	"JWT_ISSUER":               "jwt.issuer",
	"JWT_AUDIENCE":             "jwt.audience",

	"RATE_LIMIT_REQUESTS": "rate_limit.requests",
	"RATE_LIMIT_WINDOW":   "rate_limit.window",
	"RATE_LIMIT_BURST":    "rate_limit.burst",

	"LOG_LEVEL":  "log.level",
	"LOG_FORMAT": "log.format",

	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",

	"ACTIVITY_MAX_ENTRIES": "activity.max_entries",
	"ACTIVITY_TTL":         "activity.ttl",
}

// envKey maps a variable name to its config path; koanf drops keys mapped
// to "".
func envKey(name string) string {
	return envKeys[name]
}
