package idgen_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/idgen"
)

func TestSequential(t *testing.T) {
	gen := idgen.NewSequential("conv")
	assert.Equal(t, "conv_1", gen.Generate())
	assert.Equal(t, "conv_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestSequentialConcurrent(t *testing.T) {
	gen := idgen.NewSequential("turn")
	seen := sync.Map{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, loaded := seen.LoadOrStore(gen.Generate(), true)
			assert.False(t, loaded)
		}()
	}
	wg.Wait()
}

func TestUUID(t *testing.T) {
	gen := idgen.NewUUID("evt")
	id := gen.Generate()
	require.True(t, strings.HasPrefix(id, "evt_"))
	assert.Len(t, strings.TrimPrefix(id, "evt_"), 36)
	assert.NotEqual(t, id, gen.Generate())
}
