package stall

import "realestate-lead-orchestrator/internal/models"

// detectionTable is one stall kind's keyword set. Table order decides the
// tie-break when more than one kind's keywords are present.
type detectionTable struct {
	kind     models.StallKind
	keywords []string
}

// detectionTables is scanned in order; the first kind with a matching
// keyword wins (§4.2).
var detectionTables = []detectionTable{
	{
		kind: models.StallThinking,
		keywords: []string{
			"need to think", "thinking about it", "still thinking",
			"let me think", "give me some time", "need time to decide",
		},
	},
	{
		kind: models.StallPriceObjection,
		keywords: []string{
			"too expensive", "too much money", "can't afford", "cannot afford",
			"price is too high", "too high a price", "out of my budget",
		},
	},
	{
		kind: models.StallZestimateFixation,
		keywords: []string{
			"zestimate", "redfin estimate", "online estimate says",
			"according to the estimate",
		},
	},
	{
		kind: models.StallAgentConflict,
		keywords: []string{
			"already have an agent", "working with another agent",
			"my realtor", "signed with someone else", "exclusive agreement",
		},
	},
	{
		kind: models.StallBusy,
		keywords: []string{
			"too busy", "swamped", "can't talk right now", "in a meeting",
			"call you later", "not a good time",
		},
	},
	{
		kind: models.StallMaybeLater,
		keywords: []string{
			"maybe later", "not right now", "reach out later", "check back later",
			"down the road", "not ready yet",
		},
	},
}
