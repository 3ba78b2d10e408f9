package server

import (
	"encoding/json"
	"io"

	"github.com/FNNDSC/pl-supernode/internal/model"
)

func toJSON(i interface{}, w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(i)
}

func fromJSON(i interface{}, r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(i)
}

type StartRunRequest struct {
	Cid           int32  `json:"cid"`
	TotalClients  int32  `json:"totalClients"`
	DataSeed      int32  `json:"dataSeed"`
	SuperlinkHost string `json:"superlinkHost"`
	SuperlinkPort int32  `json:"superlinkPort"`
	ClientAppHost string `json:"clientAppHost"`
	ClientAppPort int32  `json:"clientAppPort"`
	Transport     string `json:"transport"`
	StateDir      string `json:"stateDir"`
}

type RunStatusResponse struct {
	RunId   string               `json:"runId"`
	State   string               `json:"state"`
	Error   string               `json:"error,omitempty"`
	Summary *model.SummaryRecord `json:"summary,omitempty"`
}
