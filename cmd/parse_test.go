package cmd

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-e2e/internal/stream"
)

func TestParseProperty(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"enabled=false", false},
		{"period=500", int32(500)},
		{"sensitivity=0.75", 0.75},
		{"display_name=lobby cam", "lobby cam"},
	}
	for _, tt := range tests {
		p, err := parseProperty(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, p.Value(), tt.in)
	}

	_, err := parseProperty("novalue")
	assert.Error(t, err)
}

func TestParsePattern(t *testing.T) {
	p, err := parsePattern(`{"streamId":"/^s\\d$/","jpeg":"*","speed":1,"meta":{"codec":"h264"}}`)
	require.NoError(t, err)

	assert.Equal(t, stream.Present, p["jpeg"])
	assert.IsType(t, &regexp.Regexp{}, p["streamId"])
	assert.IsType(t, stream.Pattern{}, p["meta"])

	assert.True(t, stream.Match([]byte(`{"streamId":"s1","jpeg":"x","speed":1,"meta":{"codec":"h264"}}`), p))
	assert.False(t, stream.Match([]byte(`{"streamId":"s10","jpeg":"x","speed":1,"meta":{"codec":"h264"}}`), p))

	_, err = parsePattern(`{"x":"/[/"}`)
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Nil(t, splitList(""))
}
