// Package redis holds the connection used for dialogue history
package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
)

// Client is the go-redis surface repositories depend on
type Client interface {
	redis.UniversalClient
}

// Options tunes the connection. The zero value uses go-redis defaults.
type Options struct {
	DB          int
	Password    string
	UseTLS      bool
	DialTimeout time.Duration
	MaxRetries  int
}

// NewClient returns a lazily connected client for a single Redis instance
func NewClient(addr string, opts *Options) (Client, error) {
	if addr == "" {
		return nil, errors.InvalidArgument("redis address is required")
	}
	if opts == nil {
		opts = &Options{}
	}

	ro := &redis.Options{
		Addr:        addr,
		DB:          opts.DB,
		Password:    opts.Password,
		DialTimeout: opts.DialTimeout,
		MaxRetries:  opts.MaxRetries,
	}
	if opts.UseTLS {
		ro.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return redis.NewClient(ro), nil
}

// Ping checks the connection
func Ping(ctx context.Context, c Client) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "redis is not reachable")
	}
	return nil
}
