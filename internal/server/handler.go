package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/FNNDSC/pl-supernode/internal/common"
	"github.com/FNNDSC/pl-supernode/internal/events"
	"github.com/FNNDSC/pl-supernode/internal/model"
	"github.com/FNNDSC/pl-supernode/internal/procorch"
	"github.com/FNNDSC/pl-supernode/internal/supernode"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
)

type runState struct {
	cancel  context.CancelFunc
	state   string
	errMsg  string
	summary *model.SummaryRecord
}

type Handler struct {
	logger     hclog.Logger
	eventBus   *events.EventBus
	registry   *procorch.ChildRegistry
	supervisor *supernode.Supervisor

	mu   sync.Mutex
	runs map[string]*runState
}

func NewHandler(logger hclog.Logger, eventBus *events.EventBus, registry *procorch.ChildRegistry) *Handler {
	return &Handler{
		logger:     logger,
		eventBus:   eventBus,
		registry:   registry,
		supervisor: supernode.NewSupervisor(logger, registry, eventBus),
		runs:       map[string]*runState{},
	}
}

func (handler *Handler) StartRun(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Add("Content-Type", "application/json")

	request := &StartRunRequest{}
	err := fromJSON(request, r.Body)
	if err != nil {
		handler.logger.Error(fmt.Sprintf("error decoding start request: %s", err.Error()))
		rw.WriteHeader(http.StatusBadRequest)
		toJSON("invalid request body", rw)
		return
	}

	opts := optionsWithDefaults(request)

	nodeConfig := model.NodeConfig{Cid: opts.Cid, TotalClients: opts.TotalClients, DataSeed: opts.DataSeed}
	if err := nodeConfig.Validate(); err != nil {
		handler.logger.Error(fmt.Sprintf("error starting run: %s", err.Error()))
		rw.WriteHeader(http.StatusBadRequest)
		toJSON(err.Error(), rw)
		return
	}

	stateDir := request.StateDir
	if stateDir == "" {
		stateDir = common.DEFAULT_STATE_DIR
	}
	env, flwrHome, err := supernode.PrepareEnvironment(stateDir, opts.Cid)
	if err != nil {
		handler.logger.Error(fmt.Sprintf("error preparing environment: %s", err.Error()))
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}
	opts.Env = env

	runId := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	handler.mu.Lock()
	handler.runs[runId] = &runState{cancel: cancel, state: common.RUN_STATE_RUNNING}
	handler.mu.Unlock()

	handler.logger.Info(fmt.Sprintf("Starting run %s for cid %d (state dir %s)", runId, opts.Cid, flwrHome))

	go func() {
		summary, err := handler.supervisor.Run(ctx, opts)

		handler.mu.Lock()
		defer handler.mu.Unlock()
		run := handler.runs[runId]
		if err != nil {
			run.state = common.RUN_STATE_FAILED
			run.errMsg = err.Error()
			return
		}
		run.state = common.RUN_STATE_SUCCEEDED
		run.summary = summary
	}()

	rw.WriteHeader(http.StatusOK)
	toJSON(runId, rw)
}

func (handler *Handler) StopRun(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Add("Content-Type", "application/json")

	runId := getURLParameter(r, "runId")

	handler.mu.Lock()
	run := handler.runs[runId]
	handler.mu.Unlock()

	if run == nil {
		rw.WriteHeader(http.StatusBadRequest)
		toJSON("no run with the given ID", rw)
		return
	}

	handler.logger.Info(fmt.Sprintf("Stopping run %s", runId))
	run.cancel()
	rw.WriteHeader(http.StatusOK)
}

func (handler *Handler) GetRun(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Add("Content-Type", "application/json")

	runId := getURLParameter(r, "runId")

	handler.mu.Lock()
	run := handler.runs[runId]
	handler.mu.Unlock()

	if run == nil {
		rw.WriteHeader(http.StatusNotFound)
		toJSON("no run with the given ID", rw)
		return
	}

	rw.WriteHeader(http.StatusOK)
	toJSON(&RunStatusResponse{
		RunId:   runId,
		State:   run.state,
		Error:   run.errMsg,
		Summary: run.summary,
	}, rw)
}

func optionsWithDefaults(request *StartRunRequest) supernode.RunOptions {
	opts := supernode.RunOptions{
		Cid:           request.Cid,
		TotalClients:  request.TotalClients,
		DataSeed:      request.DataSeed,
		SuperlinkHost: request.SuperlinkHost,
		SuperlinkPort: request.SuperlinkPort,
		ClientAppHost: request.ClientAppHost,
		ClientAppPort: request.ClientAppPort,
		Transport:     request.Transport,
	}
	if opts.TotalClients == 0 {
		opts.TotalClients = common.DEFAULT_TOTAL_CLIENTS
	}
	if opts.DataSeed == 0 {
		opts.DataSeed = common.DEFAULT_DATA_SEED
	}
	if opts.SuperlinkHost == "" {
		opts.SuperlinkHost = common.DEFAULT_SUPERLINK_HOST
	}
	if opts.SuperlinkPort == 0 {
		opts.SuperlinkPort = common.DEFAULT_SUPERLINK_PORT
	}
	if opts.ClientAppHost == "" {
		opts.ClientAppHost = common.DEFAULT_CLIENTAPP_HOST
	}
	if opts.ClientAppPort == 0 {
		opts.ClientAppPort = common.DEFAULT_CLIENTAPP_PORT
	}
	if opts.Transport == "" {
		opts.Transport = common.TRANSPORT_GRPC_RERE
	}
	return opts
}

func getURLParameter(r *http.Request, parameter string) string {
	vars := mux.Vars(r)
	id := vars[parameter]
	return id
}
