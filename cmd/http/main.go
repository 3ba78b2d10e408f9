package main

import (
	"io"
	"os"
	"strconv"

	"github.com/FNNDSC/pl-supernode/internal/events"
	"github.com/FNNDSC/pl-supernode/internal/procorch"
	"github.com/FNNDSC/pl-supernode/internal/server"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
)

func main() {
	_ = os.Mkdir("log", 0777)
	logFile, err := os.OpenFile("log/run.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0777)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			panic(err)
		}
	}()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "pl-supernode",
		Level:  hclog.LevelFromString("DEBUG"),
		Output: io.MultiWriter(os.Stdout, logFile),
	})

	port := 8080
	if len(os.Args) == 2 {
		parsed, err := strconv.Atoi(os.Args[1])
		if err != nil {
			logger.Error("Invalid port argument", "error", err)
			return
		}
		port = parsed
	}

	eventBus := events.NewEventBus()
	registry := procorch.NewChildRegistry(logger)

	handler := server.NewHandler(logger, eventBus, registry)

	defaultRouter := mux.NewRouter()
	defaultRouter.HandleFunc("/run/start", handler.StartRun).Methods("POST")
	defaultRouter.HandleFunc("/run/stop/{runId}", handler.StopRun).Methods("POST")
	defaultRouter.HandleFunc("/run/{runId}", handler.GetRun).Methods("GET")

	server.StartHttpServer(logger, defaultRouter, port, registry)
}
