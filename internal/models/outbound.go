package models

// OutboundAction is one side-effecting step a workflow wants taken, with
// its delivery/compliance disposition attached after the orchestrator
// routes it through the Compliance Gate and collaborators (§4.5, §4.6,
// §7). A denied or failed action is never silently dropped: it is still
// present in OutboundPlan.Actions, just marked Blocked or Failed.
type OutboundAction struct {
	Kind       OutboundActionKind `json:"kind"`
	Status     ActionStatus       `json:"status"`
	Content    string             `json:"content,omitempty"`
	DenyReason DenyReason         `json:"deny_reason,omitempty"`
	Detail     string             `json:"detail,omitempty"`
}

// OutboundPlan is a workflow's response to one inbound message: the
// reply text (if any; a pure-side-effect turn may have none) plus the
// ordered list of actions the orchestrator must carry out. Text is a
// template/placeholder fragment when no LLM collaborator is wired, or
// the drafted message when one is.
type OutboundPlan struct {
	Text        string           `json:"text,omitempty"`
	Actions     []OutboundAction `json:"actions,omitempty"`
	HandoffTo   BotKind          `json:"handoff_to,omitempty"`
	Escalate    bool             `json:"escalate,omitempty"`
}
