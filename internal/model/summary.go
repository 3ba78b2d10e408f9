package model

// SummaryRecord is the structured result the ClientApp emits on stdout behind
// the summary marker token. Only kind "train" records are retained; the last
// well-formed one observed on stdout wins.
type SummaryRecord struct {
	Kind    string             `json:"kind"`
	NodeId  int32              `json:"nodeId"`
	Metrics map[string]float64 `json:"metrics"`
	Message string             `json:"message,omitempty"`
}
