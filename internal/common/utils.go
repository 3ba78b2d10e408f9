package common

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/FNNDSC/pl-supernode/internal/model"
)

func GetSuperlinkAddress(host string, port int32) string {
	return fmt.Sprintf("%s:%d", host, port)
}

func GetClientAppAddress(host string, port int32) string {
	return fmt.Sprintf("%s:%d", host, port)
}

func GetNodeStateDirName(cid int32) string {
	return fmt.Sprintf("%s%d", NODE_STATE_DIR_PREFIX, cid)
}

// WriteSummaryFile serializes the final summary record to a pretty-printed
// JSON file at the given path.
func WriteSummaryFile(fileName string, summary *model.SummaryRecord) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	if err := os.WriteFile(fileName, data, 0644); err != nil {
		return fmt.Errorf("write summary file: %w", err)
	}

	return nil
}
