package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FNNDSC/pl-supernode/internal/common"
	"github.com/FNNDSC/pl-supernode/internal/events"
	"github.com/FNNDSC/pl-supernode/internal/model"
	"github.com/FNNDSC/pl-supernode/internal/procorch"
	"github.com/FNNDSC/pl-supernode/internal/supernode"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

const version = "0.0.5"

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "pl-supernode",
		Level: hclog.LevelFromString(getEnv("SUPERNODE_LOG_LEVEL", "INFO")),
	})

	rootCmd := newRootCommand(logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())

		var workerErr *supernode.WorkerFailedError
		if errors.As(err, &workerErr) && workerErr.ExitCode > 0 {
			os.Exit(workerErr.ExitCode)
		}
		os.Exit(1)
	}
}

type cliOptions struct {
	cid           int32
	totalClients  int32
	dataSeed      int32
	superlinkHost string
	superlinkPort int32
	clientAppHost string
	clientAppPort int32
	transport     string
	stateDir      string
	metricsFile   string
	keepState     bool
}

func newRootCommand(logger hclog.Logger) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:     "pl-supernode <inputdir> <outputdir>",
		Short:   "Run the FedMed Flower SuperNode inside ChRIS",
		Version: version,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// inputdir (args[0]) is part of the plugin contract but unused
			return runSupernode(cmd, logger, opts, args[1])
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.Int32Var(&opts.cid, "cid", int32(getEnvInt("SUPERNODE_CID", 0)), "client id (partition id)")
	flags.Int32Var(&opts.totalClients, "total-clients", int32(getEnvInt("SUPERNODE_TOTAL_CLIENTS", common.DEFAULT_TOTAL_CLIENTS)), "logical clients")
	flags.Int32Var(&opts.dataSeed, "data-seed", int32(getEnvInt("SUPERNODE_DATA_SEED", common.DEFAULT_DATA_SEED)), "seed for synthetic data partitioning")
	flags.StringVar(&opts.superlinkHost, "superlink-host", getEnv("SUPERNODE_SUPERLINK_HOST", common.DEFAULT_SUPERLINK_HOST), "SuperLink host/IP")
	flags.Int32Var(&opts.superlinkPort, "superlink-port", int32(getEnvInt("SUPERNODE_SUPERLINK_PORT", common.DEFAULT_SUPERLINK_PORT)), "SuperLink port")
	flags.StringVar(&opts.clientAppHost, "clientapp-host", getEnv("SUPERNODE_CLIENTAPP_HOST", common.DEFAULT_CLIENTAPP_HOST), "ClientApp bind host")
	flags.Int32Var(&opts.clientAppPort, "clientapp-port", int32(getEnvInt("SUPERNODE_CLIENTAPP_PORT", common.DEFAULT_CLIENTAPP_PORT)), "ClientApp port")
	flags.StringVar(&opts.transport, "transport", getEnv("SUPERNODE_TRANSPORT", common.TRANSPORT_GRPC_RERE), "transport to the SuperLink (grpc-rere, grpc-adapter or rest)")
	flags.StringVar(&opts.stateDir, "state-dir", getEnv("SUPERNODE_STATE_DIR", common.DEFAULT_STATE_DIR), "root directory for per-node state")
	flags.StringVar(&opts.metricsFile, "metrics-file", getEnv("SUPERNODE_METRICS_FILE", common.DEFAULT_METRICS_FILE), "metrics file name inside outputdir")
	flags.BoolVar(&opts.keepState, "keep-state", false, "keep the per-node state directory after the run")

	return cmd
}

func runSupernode(cmd *cobra.Command, logger hclog.Logger, opts *cliOptions, outputDir string) error {
	nodeConfig := model.NodeConfig{Cid: opts.cid, TotalClients: opts.totalClients, DataSeed: opts.dataSeed}
	if err := nodeConfig.Validate(); err != nil {
		return err
	}

	registry := procorch.NewChildRegistry(logger)
	eventBus := events.NewEventBus()

	disarm := procorch.ArmSignalHandler(logger, registry, eventBus)
	if disarm != nil {
		defer disarm()
	}
	defer registry.CleanupAll()

	env, flwrHome, err := supernode.PrepareEnvironment(opts.stateDir, opts.cid)
	if err != nil {
		return err
	}

	supervisor := supernode.NewSupervisor(logger, registry, eventBus)
	summary, err := supervisor.Run(cmd.Context(), supernode.RunOptions{
		Cid:           opts.cid,
		TotalClients:  opts.totalClients,
		DataSeed:      opts.dataSeed,
		SuperlinkHost: opts.superlinkHost,
		SuperlinkPort: opts.superlinkPort,
		ClientAppHost: opts.clientAppHost,
		ClientAppPort: opts.clientAppPort,
		Transport:     opts.transport,
		Env:           env,
	})
	if err != nil {
		return err
	}

	metricsPath := filepath.Join(outputDir, opts.metricsFile)
	if err := common.WriteSummaryFile(metricsPath, summary); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("[pl-supernode:%d] wrote metrics to %s", opts.cid, metricsPath))

	if !opts.keepState {
		if err := supernode.RemoveState(flwrHome); err != nil {
			logger.Warn(fmt.Sprintf("failed to clean %s: %s", flwrHome, err.Error()))
		} else {
			logger.Info(fmt.Sprintf("[pl-supernode:%d] cleaned %s", opts.cid, flwrHome))
		}
	}

	return nil
}
