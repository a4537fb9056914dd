package main

import (
	"fmt"
	"os"

	"github.com/LdDl/roadnet"
	"go.uber.org/zap"
)

const usage = `Usage: roadnet <command> [flags]

Commands:
  analyze    Report connected components of the routable network
  trim       Keep only the largest connected component
  simplify   Rewrite routable ways down to their kept nodes
  degrees    Report endpoint degree statistics of the routable network
  addresses  Map addresses to their closest network node
  export     Export the network for contraction hierarchies routing

Run 'roadnet <command> -h' for the flags of a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(os.Args[2:])
	case "trim":
		err = runTrim(os.Args[2:])
	case "simplify":
		err = runSimplify(os.Args[2:])
	case "degrees":
		err = runDegrees(os.Args[2:])
	case "addresses":
		err = runAddresses(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command '%s'\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadSetup(configPath string) (roadnet.Config, *roadnet.RoutingProfile, error) {
	config, err := roadnet.ReadConfig(configPath)
	if err != nil {
		return config, nil, err
	}
	profile, err := config.BuildProfile()
	if err != nil {
		return config, nil, err
	}
	return config, profile, nil
}

func newSource(config roadnet.Config, fileName string) *roadnet.FileSource {
	return roadnet.NewFileSource(fileName, roadnet.WithScannerProcs(config.ScannerProcs))
}
