// Package redis provides connection helpers for github.com/redis/go-redis/v9:
// an env-driven Config, Connect with bounded retries and a Healthcheck closure.
package redis
