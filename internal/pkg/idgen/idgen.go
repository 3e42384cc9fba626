// Package idgen names conversations and audit records
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/rpg-dialogue/internal/pkg/idgen Generator

// Generator hands out unique identifiers
type Generator interface {
	Generate() string
}

// SequentialGenerator yields prefix_1, prefix_2, ... so tests can predict IDs
type SequentialGenerator struct {
	prefix string
	n      atomic.Uint64
}

func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

func (g *SequentialGenerator) Generate() string {
	return withPrefix(g.prefix, strconv.FormatUint(g.n.Add(1), 10))
}

// UUIDGenerator yields prefix_<uuid v4>
type UUIDGenerator struct {
	prefix string
}

func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

func (g *UUIDGenerator) Generate() string {
	return withPrefix(g.prefix, uuid.NewString())
}

func withPrefix(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
