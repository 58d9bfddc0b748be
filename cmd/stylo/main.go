package main

import (
	"flag"
	"fmt"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/bethropolis/stylo/internal/app"
	"github.com/bethropolis/stylo/internal/config"
	"github.com/bethropolis/stylo/internal/logger"
)

const version = "0.1.0"

// defaultLogFile keeps log output off the terminal the editor draws on.
const defaultLogFile = "stylo.log"

func main() {
	// --- Argument & Flag Parsing ---
	flags := &config.Flags{}
	args, err := flags.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}
	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(*flags.ConfigFilePath, flags)
	if err != nil {
		stlog.Printf("Warning: %v, using defaults", err)
	}
	if cfg.Logger.LogFilePath == "" {
		cfg.Logger.LogFilePath = defaultLogFile
	}

	// --- Logger Initialization ---
	logFile, err := logger.OpenOutput(cfg.Logger.LogFilePath)
	if err != nil {
		stlog.Fatalf("Failed to open log output: %v", err)
	}
	defer logFile.Close()
	logger.SetFilterDebug(*flags.DebugLog)
	logger.Init(cfg.Logger, logFile)

	logger.Infof("Starting Stylo editor...")
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting empty.")
	}

	// --- Create and Run App ---
	stylo, err := app.NewApp(cfg, filePath)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		logFile.Close()
		os.Exit(1)
	}

	if err := stylo.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		logFile.Close()
		os.Exit(1)
	}

	logger.Infof("Stylo editor finished.")
}
