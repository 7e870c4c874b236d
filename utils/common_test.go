package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrafficFormat(t *testing.T) {
	tests := []struct {
		traffic  int64
		expected string
	}{
		{0, "0B"},
		{512, "512B"},
		{1536, "1.5KB"},
		{3 * MB, "3.0MB"},
		{10*GB + 512*MB, "10.5GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, TrafficFormat(tt.traffic))
	}
}

func TestSplitServers(t *testing.T) {
	assert.Equal(t, []string{"1.1.1.1"}, SplitServers("1.1.1.1"))
	assert.Equal(t, []string{"1.1.1.1", "example.com"}, SplitServers("1.1.1.1, example.com"))
	assert.Empty(t, SplitServers(" , "))
}
