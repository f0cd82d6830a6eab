package model

// Technique is a MITRE ATT&CK technique as served by the techniques endpoint.
type Technique struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Tactic      string `json:"tactic"`
	TacticName  string `json:"tacticName"`
	URL         string `json:"url"`
}
