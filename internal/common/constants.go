package common

import "time"

// Worker invocation
const SUPERNODE_COMMAND = "flower-supernode"
const SUPERNODE_STDOUT_LABEL = "supernode"
const SUPERNODE_STDERR_LABEL = "supernode-err"

// Marker protocol
const SUMMARY_TOKEN = "[fedmed-supernode-app] SUMMARY "
const SUMMARY_KIND_TRAIN = "train"

// Transports
const TRANSPORT_GRPC_RERE = "grpc-rere"
const TRANSPORT_GRPC_ADAPTER = "grpc-adapter"
const TRANSPORT_REST = "rest"

// Connection defaults
const DEFAULT_SUPERLINK_HOST = "fedmed-pl-superlink"
const DEFAULT_SUPERLINK_PORT = 9092
const DEFAULT_CLIENTAPP_HOST = "0.0.0.0"
const DEFAULT_CLIENTAPP_PORT = 9094
const DEFAULT_TOTAL_CLIENTS = 3
const DEFAULT_DATA_SEED = 13

// Node state
const DEFAULT_STATE_DIR = "/tmp/fedmed-flwr-node"
const STATE_DIR_ENV_VAR = "FLWR_HOME"
const NODE_STATE_DIR_PREFIX = "cid-"

// Results
const DEFAULT_METRICS_FILE = "client_metrics.json"

// Cleanup
const TERMINATE_TIMEOUT = 10 * time.Second

// Events
const RUN_FINISHED_EVENT_TYPE = "RunFinished"
const SHUTDOWN_REQUESTED_EVENT_TYPE = "ShutdownRequested"

// Run states
const RUN_STATE_RUNNING = "running"
const RUN_STATE_SUCCEEDED = "succeeded"
const RUN_STATE_FAILED = "failed"
