package request_status_enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "pending", Label(PENDING))
	assert.Equal(t, "approved", Label(APPROVED))
	assert.Equal(t, "declined", Label(DECLINED))
	assert.Equal(t, "expired", Label(EXPIRED))
	assert.Equal(t, "unknown", Label(99))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(PENDING))
	assert.True(t, IsTerminal(APPROVED))
	assert.True(t, IsTerminal(DECLINED))
	assert.True(t, IsTerminal(EXPIRED))
}
