package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/grind/internal/game/services"
)

type pinger interface{ Ping() string }

type pingSvc struct{}

func (pingSvc) Ping() string { return "pong" }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := services.NewRegistry()
	r.Register("ping", pingSvc{})

	svc, ok := r.Lookup("ping")
	require.True(t, ok)
	assert.Equal(t, "pong", svc.(pinger).Ping())
}

func TestRegistry_LookupMissing(t *testing.T) {
	r := services.NewRegistry()
	_, ok := r.Lookup("absent")
	assert.False(t, ok)
}

func TestRegistry_Unregister(t *testing.T) {
	r := services.NewRegistry()
	r.Register("ping", pingSvc{})
	r.Unregister("ping")
	_, ok := r.Lookup("ping")
	assert.False(t, ok)
}

func TestRegistry_RegisterIgnoresInvalid(t *testing.T) {
	r := services.NewRegistry()
	r.Register("", pingSvc{})
	r.Register("nil", nil)
	_, ok := r.Lookup("")
	assert.False(t, ok)
	_, ok = r.Lookup("nil")
	assert.False(t, ok)
}

func TestLookupAs_TypedHit(t *testing.T) {
	r := services.NewRegistry()
	r.Register("ping", pingSvc{})

	p, ok := services.LookupAs[pinger](r, "ping")
	require.True(t, ok)
	assert.Equal(t, "pong", p.Ping())
}

func TestLookupAs_WrongType(t *testing.T) {
	r := services.NewRegistry()
	r.Register("ping", "not a pinger")
	_, ok := services.LookupAs[pinger](r, "ping")
	assert.False(t, ok)
}

func TestLookupAs_NilRegistry(t *testing.T) {
	_, ok := services.LookupAs[pinger](nil, "ping")
	assert.False(t, ok)
}
