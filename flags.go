package main

import (
	"github.com/OdyseeTeam/fast-tx/config"

	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

const (
	datadirFlagName   = "datadir"
	logLevelFlagName  = "log-level"
	formatFlagName    = "format"
	archiveFlagName   = "archive"
	workersFlagName   = "workers"
	profileFlagName   = "profile"
	statsFlagName     = "stats"
	portFlagName      = "port"
	indexPathFlagName = "index-path"
)

var (
	datadirFlag = &cli.StringFlag{
		Name:  datadirFlagName,
		Usage: "directory holding the archive, index and profiles",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  logLevelFlagName,
		Usage: "logrus level: panic, fatal, error, warn, info, debug or trace",
	}
	formatFlag = &cli.StringFlag{
		Name:  formatFlagName,
		Usage: "output format, text or json",
	}
	archiveFlag = &cli.BoolFlag{
		Name:  archiveFlagName,
		Usage: "store decoded transactions in the archive",
	}
	workersFlag = &cli.IntFlag{
		Name:  workersFlagName,
		Usage: "number of decoding goroutines",
	}
	profileFlag = &cli.BoolFlag{
		Name:  profileFlagName,
		Usage: "write a memory profile to the datadir",
	}
	statsFlag = &cli.StringFlag{
		Name:  statsFlagName,
		Usage: "where to write the script class CSV",
		Value: "stats.csv",
	}
	portFlag = &cli.IntFlag{
		Name:  portFlagName,
		Usage: "http port",
		Value: config.DefaultPort,
	}
	indexPathFlag = &cli.StringFlag{
		Name:  indexPathFlagName,
		Usage: `genji index path, ":memory:" keeps it in RAM`,
	}
)

// flagOverrides maps CLI flags to the config keys they override.
var flagOverrides = map[string]string{
	datadirFlagName:   config.Datadir,
	logLevelFlagName:  config.LogLevel,
	formatFlagName:    config.Format,
	archiveFlagName:   config.Archive,
	workersFlagName:   config.Workers,
	portFlagName:      config.Port,
	indexPathFlagName: config.IndexPath,
}

// loadConfig reads the config and applies any flags set on the command line.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	for flag, key := range flagOverrides {
		if ctx.IsSet(flag) {
			viper.Set(key, ctx.Value(flag))
		}
	}
	return config.LoadConfig()
}
