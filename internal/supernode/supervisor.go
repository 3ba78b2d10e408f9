package supernode

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/FNNDSC/pl-supernode/internal/common"
	"github.com/FNNDSC/pl-supernode/internal/events"
	"github.com/FNNDSC/pl-supernode/internal/model"
	"github.com/FNNDSC/pl-supernode/internal/procorch"
	"github.com/hashicorp/go-hclog"
	"github.com/robfig/cron/v3"
)

// RunOptions carries the validated inputs for one supervised SuperNode run.
type RunOptions struct {
	Cid           int32
	TotalClients  int32
	DataSeed      int32
	SuperlinkHost string
	SuperlinkPort int32
	ClientAppHost string
	ClientAppPort int32
	Transport     string
	Env           []string
}

// WorkerFailedError reports a worker process that exited non-zero. Any
// summary accumulated before the failure is discarded.
type WorkerFailedError struct {
	ExitCode int
}

func (e *WorkerFailedError) Error() string {
	return fmt.Sprintf("%s exited with %d", common.SUPERNODE_COMMAND, e.ExitCode)
}

// Supervisor orchestrates one spawn-to-exit cycle of the flower-supernode
// worker: it builds the invocation, spawns the child, relays both output
// streams concurrently, waits for exit and returns the final summary record.
// Retry policy, if any, belongs to the caller.
type Supervisor struct {
	logger   hclog.Logger
	registry *procorch.ChildRegistry
	eventBus *events.EventBus

	// newCommand is an indirection for tests.
	newCommand func(argv []string, env []string) *exec.Cmd
}

func NewSupervisor(logger hclog.Logger, registry *procorch.ChildRegistry, eventBus *events.EventBus) *Supervisor {
	return &Supervisor{
		logger:   logger,
		registry: registry,
		eventBus: eventBus,
		newCommand: func(argv []string, env []string) *exec.Cmd {
			cmd := exec.Command(argv[0], argv[1:]...)
			cmd.Env = env
			return cmd
		},
	}
}

// Run launches flower-supernode, captures streamed metrics, and returns the
// last train summary. A non-zero worker exit yields a WorkerFailedError; a
// clean exit without any summary line yields a synthesized fallback record.
func (s *Supervisor) Run(ctx context.Context, opts RunOptions) (*model.SummaryRecord, error) {
	nodeConfig := model.NodeConfig{
		Cid:          opts.Cid,
		TotalClients: opts.TotalClients,
		DataSeed:     opts.DataSeed,
	}
	if err := nodeConfig.Validate(); err != nil {
		return nil, err
	}

	if !IsKnownTransport(opts.Transport) {
		s.logger.Warn(fmt.Sprintf("unknown transport %q, falling back to REST", opts.Transport))
	}

	targets := BuildTargets(opts.SuperlinkHost, opts.SuperlinkPort, opts.ClientAppHost, opts.ClientAppPort)
	argv := BuildSupernodeCommand(nodeConfig, targets, opts.Transport)

	s.logger.Info(fmt.Sprintf("[pl-supernode:%d] targets superlink=%s clientapp=%s node_config=%s",
		opts.Cid, targets.Superlink, targets.ClientApp, nodeConfig.AsFlag()))
	s.logger.Info(fmt.Sprintf("starting SuperNode: %s", strings.Join(argv, " ")))

	cmd := s.newCommand(argv, opts.Env)
	procorch.PrepareCommand(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}

	handle := procorch.NewChildHandle(cmd)
	s.registry.Register(handle)

	extractor := NewSummaryExtractor(s.logger)
	stdoutSink := NewTeeSink(&LogSink{Logger: s.logger, Label: common.SUPERNODE_STDOUT_LABEL}, extractor)
	stderrSink := &LogSink{Logger: s.logger, Label: common.SUPERNODE_STDERR_LABEL}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		RelayLines(stdout, stdoutSink, s.logger)
	}()
	go func() {
		defer wg.Done()
		RelayLines(stderr, stderrSink, s.logger)
	}()

	scheduler := s.startLivenessNotifier(handle)
	defer scheduler.Stop()

	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(fmt.Sprintf("[pl-supernode:%d] run cancelled, terminating SuperNode", opts.Cid))
			_ = handle.Terminate(s.registry.TerminateTimeout())
		case <-watchDone:
		}
	}()

	s.logger.Info(fmt.Sprintf("[pl-supernode:%d] waiting for %s to finish...", opts.Cid, argv[0]))

	// Both pipes must reach EOF before Wait reclaims them, or trailing
	// buffered output is lost.
	wg.Wait()
	waitErr := handle.Wait()
	s.registry.Remove(handle)

	exitCode := handle.ExitCode()
	s.logger.Info(fmt.Sprintf("[pl-supernode:%d] %s exited with %d", opts.Cid, argv[0], exitCode))

	if ctx.Err() != nil {
		s.publishRunFinished(opts.Cid, exitCode, nil)
		return nil, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	if waitErr != nil {
		s.publishRunFinished(opts.Cid, exitCode, nil)
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return nil, &WorkerFailedError{ExitCode: exitErr.ExitCode()}
		}
		return nil, fmt.Errorf("wait for %s: %w", argv[0], waitErr)
	}

	summary, ok := extractor.Summary()
	if !ok {
		s.logger.Info(fmt.Sprintf("[pl-supernode:%d] no metrics emitted, synthesizing fallback record", opts.Cid))
		summary = &model.SummaryRecord{
			Kind:    common.SUMMARY_KIND_TRAIN,
			NodeId:  opts.Cid,
			Metrics: map[string]float64{},
			Message: "No metrics emitted by the ClientApp.",
		}
	}

	s.publishRunFinished(opts.Cid, exitCode, summary)

	return summary, nil
}

// startLivenessNotifier periodically logs that the child is still alive,
// following the same cron notifier pattern used for node-state polling.
func (s *Supervisor) startLivenessNotifier(handle *procorch.ChildHandle) *cron.Cron {
	scheduler := cron.New(cron.WithSeconds())
	scheduler.AddFunc("@every 30s", func() {
		if handle.Exited() {
			return
		}
		s.logger.Info(fmt.Sprintf("supernode alive pid=%d uptime=%s", handle.Pid(), handle.Uptime().Round(time.Second)))
	})
	scheduler.Start()

	return scheduler
}

func (s *Supervisor) publishRunFinished(cid int32, exitCode int, summary *model.SummaryRecord) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(events.Event{
		Type:      common.RUN_FINISHED_EVENT_TYPE,
		Timestamp: time.Now(),
		Data:      events.RunFinishedEvent{Cid: cid, ExitCode: exitCode, Summary: summary},
	})
}
