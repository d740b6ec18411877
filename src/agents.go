package src

// AgentInfo is the display identity of one planner node. Agents are
// opaque identifiers client-side; this table only affects presentation.
type AgentInfo struct {
	Display string
	Color   string
	Desc    string
}

var knownAgents = map[string]AgentInfo{
	"commander":      {"Commander", "#AD8CFF", "Parses intent and assembles the crew"},
	"scout":          {"Scout", "#00E6B8", "Finds candidate venues"},
	"vibe_matcher":   {"Vibe Matcher", "#FF9ED2", "Scores aesthetic fit"},
	"access_analyst": {"Access Analyst", "#6FC3FF", "Checks reachability for the group"},
	"cost_analyst":   {"Cost Analyst", "#FFD166", "Audits true cost of attendance"},
	"critic":         {"Critic", "#FF5C5C", "Vetoes risky picks"},
	"synthesiser":    {"Synthesiser", "#3DDC97", "Ranks and explains the final set"},
	"graph":          {"Graph", "#999999", "Workflow engine"},
	"system":         {"System", "#777777", "Backend infrastructure"},
}

// AgentDisplay resolves a node identifier to its display identity,
// falling back to the raw name for nodes this client predates.
func AgentDisplay(node string) AgentInfo {
	if info, ok := knownAgents[node]; ok {
		return info
	}
	return AgentInfo{Display: node, Color: "#999999"}
}
