package supernode

import (
	"fmt"

	"github.com/FNNDSC/pl-supernode/internal/common"
	"github.com/FNNDSC/pl-supernode/internal/model"
)

// BuildTargets computes the SuperLink and ClientApp addresses.
func BuildTargets(superlinkHost string, superlinkPort int32, clientAppHost string, clientAppPort int32) model.ConnectionTargets {
	return model.ConnectionTargets{
		Superlink: common.GetSuperlinkAddress(superlinkHost, superlinkPort),
		ClientApp: common.GetClientAppAddress(clientAppHost, clientAppPort),
	}
}

// TransportFlag maps a transport name onto the corresponding flower-supernode
// flag. Anything outside the two gRPC variants selects REST; unrecognized
// values degrade to REST rather than failing.
func TransportFlag(transport string) string {
	switch transport {
	case common.TRANSPORT_GRPC_RERE:
		return "--grpc-rere"
	case common.TRANSPORT_GRPC_ADAPTER:
		return "--grpc-adapter"
	}
	return "--rest"
}

// IsKnownTransport reports whether the transport name is one of the closed
// set of supported values.
func IsKnownTransport(transport string) bool {
	switch transport {
	case common.TRANSPORT_GRPC_RERE, common.TRANSPORT_GRPC_ADAPTER, common.TRANSPORT_REST:
		return true
	}
	return false
}

// BuildSupernodeCommand constructs the full argument vector for one
// flower-supernode invocation. Exactly one transport flag is present.
func BuildSupernodeCommand(nodeConfig model.NodeConfig, targets model.ConnectionTargets, transport string) []string {
	return []string{
		common.SUPERNODE_COMMAND,
		"--insecure",
		TransportFlag(transport),
		fmt.Sprintf("--superlink=%s", targets.Superlink),
		fmt.Sprintf("--clientappio-api-address=%s", targets.ClientApp),
		"--node-config",
		nodeConfig.AsFlag(),
	}
}
