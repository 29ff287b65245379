package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Version will be set during build time
var Version string

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "fast-tx"
	app.Usage = "decode raw bitcoin transactions"
	app.UsageText = "Decode a transaction with:\n\tfast-tx [HEX]\nor pipe one hex transaction per line into stdin."
	app.Commands = append(
		app.Commands,
		decodeCmd,
		loadCmd,
		serveCmd,
	)
	app.Action = decodeAction
	app.Flags = append(app.Flags, datadirFlag, logLevelFlag, formatFlag, archiveFlag)

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
