package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/repo"
)

func TestStore_SaveAndFind(t *testing.T) {
	s := New(domain.PingICMP.ID)

	saved, err := s.Save(domain.PingICMP{Host: "example.com", Success: true})
	require.NoError(t, err)
	assert.Equal(t, "example.com", saved.Host)

	got, ok := s.FindByID("example.com")
	require.True(t, ok)
	assert.True(t, got.Success)

	_, ok = s.FindByID("missing.example.com")
	assert.False(t, ok)
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := New(domain.TraceRoute.ID)

	_, err := s.Save(domain.TraceRoute{Host: "h", Terminal: domain.Execution{ExitCode: 1}})
	require.NoError(t, err)
	_, err = s.Save(domain.TraceRoute{Host: "h", Terminal: domain.Execution{ExitCode: 0}, Success: true})
	require.NoError(t, err)

	got, ok := s.FindByID("h")
	require.True(t, ok)
	assert.Equal(t, 0, got.Terminal.ExitCode)
	assert.True(t, got.Success)
	assert.Equal(t, 1, s.Len())
}

func TestStore_RejectsMissingIdentity(t *testing.T) {
	tests := []struct {
		name  string
		store *Store[string, domain.PingICMP]
		in    domain.PingICMP
	}{
		{name: "empty key", store: New(domain.PingICMP.ID), in: domain.PingICMP{}},
		{name: "no extractor", store: New[string, domain.PingICMP](nil), in: domain.PingICMP{Host: "h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.store.Save(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, repo.ErrIdentity))

			var idErr *repo.IdentityError
			require.ErrorAs(t, err, &idErr)
			assert.Contains(t, idErr.Entity, "PingICMP")
			assert.Equal(t, 0, tt.store.Len())
		})
	}
}

func TestStore_ChecksIdentityOnEverySave(t *testing.T) {
	s := New(domain.PingTCP.ID)

	_, err := s.Save(domain.PingTCP{})
	require.Error(t, err)
	_, err = s.Save(domain.PingTCP{})
	require.Error(t, err)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	s := New(domain.PingICMP.ID)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				host := fmt.Sprintf("host-%d", j%4)
				_, err := s.Save(domain.PingICMP{
					Host:     host,
					Terminal: domain.Execution{Command: host, StartedAt: time.Now()},
					Success:  i%2 == 0,
				})
				assert.NoError(t, err)
				if got, ok := s.FindByID(host); ok {
					assert.Equal(t, host, got.Terminal.Command, "entity must never be observed half-written")
				}
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, s.Len())
}
