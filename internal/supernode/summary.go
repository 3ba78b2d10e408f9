package supernode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FNNDSC/pl-supernode/internal/common"
	"github.com/FNNDSC/pl-supernode/internal/model"
	"github.com/hashicorp/go-hclog"
)

// SummaryExtractor is a LineSink that scans relayed stdout lines for the
// summary marker token and keeps the most recent well-formed "train" record.
// It is written by the stdout relay goroutine only; Summary must not be read
// until that relay has been joined.
type SummaryExtractor struct {
	logger  hclog.Logger
	summary *model.SummaryRecord
}

func NewSummaryExtractor(logger hclog.Logger) *SummaryExtractor {
	return &SummaryExtractor{logger: logger}
}

func (e *SummaryExtractor) WriteLine(line string) {
	idx := strings.Index(line, common.SUMMARY_TOKEN)
	if idx < 0 {
		return
	}

	payload := strings.TrimSpace(line[idx+len(common.SUMMARY_TOKEN):])
	record := &model.SummaryRecord{}
	if err := json.Unmarshal([]byte(payload), record); err != nil {
		e.logger.Warn(fmt.Sprintf("failed to parse summary payload: %s", err.Error()))
		return
	}

	if record.Kind != common.SUMMARY_KIND_TRAIN {
		return
	}

	e.summary = record
}

// Summary returns the last retained train record, if any was observed.
func (e *SummaryExtractor) Summary() (*model.SummaryRecord, bool) {
	if e.summary == nil {
		return nil, false
	}
	return e.summary, true
}
