package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMongoUnconfigured(t *testing.T) {
	var m *Mongo
	assert.NotPanics(t, m.Close)
	assert.Error(t, m.Ping(context.Background()))

	empty := &Mongo{}
	assert.NotPanics(t, empty.Close)
	assert.Error(t, empty.Ping(context.Background()))
}
