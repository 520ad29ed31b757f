// Package mongo provides connection helpers for go.mongodb.org/mongo-driver/v2:
// an env-driven Config, New/NewWithDatabase with retries, error classifiers and
// a Healthcheck closure.
package mongo
