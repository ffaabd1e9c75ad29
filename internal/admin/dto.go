// AngelaMos | 2026
// dto.go

package admin

import (
	"github.com/metaconstrutor/api/internal/health"
	"github.com/metaconstrutor/api/internal/permission"
	"github.com/metaconstrutor/api/internal/plan"
)

type SystemStatsResponse struct {
	Healthy  bool                 `json:"healthy"`
	Checks   []health.HealthCheck `json:"checks"`
	Database *DBPoolStats         `json:"database,omitempty"`
	Redis    *RedisPoolStats      `json:"redis,omitempty"`
	Runtime  RuntimeStats         `json:"runtime"`
}

type OrganizationUsageResponse struct {
	OrganizationID string                `json:"organization_id"`
	Limits         plan.Limits           `json:"limits"`
	Usage          permission.Usage      `json:"usage"`
	Remaining      map[plan.Resource]int `json:"remaining"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	Uptime       string `json:"uptime"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
