package src

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentDisplayKnownNodes(t *testing.T) {
	assert.Equal(t, "Vibe Matcher", AgentDisplay("vibe_matcher").Display)
	assert.Equal(t, "Scout", AgentDisplay("scout").Display)
	assert.NotEmpty(t, AgentDisplay("critic").Color)
}

func TestAgentDisplayUnknownNodeFallsBack(t *testing.T) {
	info := AgentDisplay("weather_oracle")
	assert.Equal(t, "weather_oracle", info.Display)
	assert.NotEmpty(t, info.Color)
}
