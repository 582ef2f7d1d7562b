package model

const NODE_TYPE_START string = "n8n-nodes-base.start"
const NODE_TYPE_HTTP_REQUEST string = "n8n-nodes-base.httpRequest"
const NODE_TYPE_XML string = "n8n-nodes-base.xml"
const NODE_TYPE_FILTER string = "n8n-nodes-base.filter"

type WorkflowNode struct {
	Id         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
	Position   []float64      `json:"position"`
}

type Connection struct {
	Node  string `json:"node"`
	Type  string `json:"type,omitempty"`
	Index int    `json:"index,omitempty"`
}

type NodeConnections struct {
	Main [][]Connection `json:"main"`
}

// Workflow is a simplified n8n-style workflow description. Nodes form a
// directed graph via Connections, though every imported workflow is a
// linear chain in practice (one output per node).
type Workflow struct {
	Name        string                     `json:"name,omitempty"`
	Nodes       []WorkflowNode             `json:"nodes"`
	Connections map[string]NodeConnections `json:"connections"`
}

type WorkflowEntityState struct {
	Id                 string   `json:"id"`
	Workflow           Workflow `json:"workflow"`
	CreatedAt          int64    `json:"createdAt"`
	ScheduleIntervalMs int64    `json:"scheduleIntervalMs"`
	Enabled            bool     `json:"enabled"`
	LastRun            int64    `json:"lastRun"`
}

type SchedulePatch struct {
	ScheduleIntervalMs *int64 `json:"scheduleIntervalMs"`
	Enabled            *bool  `json:"enabled"`
}

type WorkflowListResponse struct {
	Items []WorkflowEntityState `json:"items"`
	Next  *string               `json:"next"`
}

type AutomationRunResponse struct {
	Results []FeedItem `json:"results"`
	Summary string     `json:"summary"`
}

type SummarizeResponse struct {
	Summary string   `json:"summary"`
	Actions []string `json:"actions"`
}
