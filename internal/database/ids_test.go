package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMalformedID(t *testing.T) {
	assert.False(t, MalformedID(uuid.New().String()))
	assert.True(t, MalformedID("wire"))
	assert.True(t, MalformedID(""))
	assert.True(t, MalformedID("42"))
}
