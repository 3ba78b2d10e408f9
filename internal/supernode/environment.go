package supernode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FNNDSC/pl-supernode/internal/common"
)

// PrepareEnvironment creates a dedicated FLWR_HOME directory for this logical
// client id under stateRoot and returns the child environment with FLWR_HOME
// overridden to it, plus the directory path. Safe to call repeatedly for the
// same (stateRoot, cid) pair.
func PrepareEnvironment(stateRoot string, cid int32) ([]string, string, error) {
	flwrHome := filepath.Join(stateRoot, common.GetNodeStateDirName(cid))
	if err := os.MkdirAll(flwrHome, 0755); err != nil {
		return nil, "", fmt.Errorf("create node state dir: %w", err)
	}

	ambient := os.Environ()
	env := make([]string, 0, len(ambient)+1)
	for _, kv := range ambient {
		if strings.HasPrefix(kv, common.STATE_DIR_ENV_VAR+"=") {
			continue
		}
		env = append(env, kv)
	}
	env = append(env, common.STATE_DIR_ENV_VAR+"="+flwrHome)

	return env, flwrHome, nil
}

// RemoveState deletes the per-node state directory. Missing directories are
// not an error.
func RemoveState(flwrHome string) error {
	return os.RemoveAll(flwrHome)
}
