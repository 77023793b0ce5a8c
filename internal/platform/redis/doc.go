// Package redis implements the distributed lesson generation lock on Redis.
package redis
