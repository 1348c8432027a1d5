package insight

// Demo keys, in display order.
const (
	DemoConflict = "Conflict"
	DemoDecision = "Decision"
	DemoPressure = "Pressure"
)

var demoKeys = []string{DemoConflict, DemoDecision, DemoPressure}

var demos = map[string]Result{
	DemoConflict: {
		Summary: "Friction between technical debt management and aggressive feature deadlines.",
		Themes:  []string{"Social Capital", "Stakeholder Alignment", "Role Ambiguity"},
		Signal:  "Frustrated / High Accountability",
		Prompts: []string{
			"If the deadline shifted by 2 weeks, how would that change your technical approach?",
			"What data point would make your manager see the 'invisible' cost of this technical debt?",
		},
		Risk: "Potential for burnout due to 'savior complex'—trying to fix everything alone without structural support.",
	},
	DemoDecision: {
		Summary: "Strategic trade-off prioritizing long-term platform stability over immediate feature parity.",
		Themes:  []string{"Strategic Prioritization", "Market Positioning", "Product Quality"},
		Signal:  "Calculated / Cautious",
		Prompts: []string{
			"What is the single biggest risk of NOT launching this feature today?",
			"How are you communicating the 'quality win' to the sales team to mitigate their frustration?",
		},
		Risk: "Risk of over-polishing. Ensure the stability gains are measurable, not just theoretical.",
	},
	DemoPressure: {
		Summary: "Resource constraints forcing a shift from 'Execution' to 'Triage' mode.",
		Themes:  []string{"Capacity Planning", "Operational Resilience", "Leadership Communication"},
		Signal:  "Overwhelmed / Pragmatic",
		Prompts: []string{
			"Which 20% of your current tasks are generating 80% of the perceived pressure?",
			"Who can you deputize today to handle the low-context communications?",
		},
		Risk: "Impulsivity in delegation. Don't offload tasks without clear success criteria just to clear your plate.",
	},
}

// DemoKeys lists the bundled demo keys in display order.
func DemoKeys() []string {
	return append([]string(nil), demoKeys...)
}

// Demo returns a copy of the bundled demo result for key.
func Demo(key string) (Result, bool) {
	r, ok := demos[key]
	if !ok {
		return Result{}, false
	}
	return r.Clone(), true
}

// QuickStart is a canned reflection that can prefill the input.
type QuickStart struct {
	Label string
	Text  string
}

var quickStarts = []QuickStart{
	{
		Label: "Team Conflict",
		Text:  "During the roadmap meeting, a peer challenged my project timeline in front of the VP. I felt defensive and shut down the conversation abruptly instead of engaging with their data. Now there's tension in our 1:1s.",
	},
	{
		Label: "Hard Decision",
		Text:  "I decided to cut a highly requested feature to ensure the core platform remains stable for our enterprise launch. Half the team is relieved, but the sales team is frustrated and I'm second-guessing the trade-off.",
	},
	{
		Label: "Under Pressure",
		Text:  "I've been asked to take over a failing project while maintaining my current workload. I'm struggling to delegate tasks effectively and find myself working late into the night just to keep up with basic comms.",
	},
}

// QuickStarts returns the canned example reflections.
func QuickStarts() []QuickStart {
	return append([]QuickStart(nil), quickStarts...)
}
