package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/OdyseeTeam/fast-tx/blockchain"
	"github.com/OdyseeTeam/fast-tx/blockchain/stream"
	"github.com/OdyseeTeam/fast-tx/loader"
	"github.com/OdyseeTeam/fast-tx/printer"
	"github.com/OdyseeTeam/fast-tx/prompt"
	"github.com/OdyseeTeam/fast-tx/server"
	"github.com/OdyseeTeam/fast-tx/storage"

	"github.com/cockroachdb/errors"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	decodeCmd = &cli.Command{
		Name:      "decode",
		Usage:     "Decode a raw transaction",
		ArgsUsage: "[HEX]",
		Action:    decodeAction,
		Flags:     []cli.Flag{formatFlag, archiveFlag},
	}
	loadCmd = &cli.Command{
		Name:   "load",
		Usage:  "Decode every archived transaction and write script class stats",
		Action: loadAction,
		Flags:  []cli.Flag{workersFlag, profileFlag, statsFlag},
	}
	serveCmd = &cli.Command{
		Name:   "serve",
		Usage:  "Index the archive and serve /decode and /sql over http",
		Action: serveAction,
		Flags:  []cli.Flag{portFlag, indexPathFlag, workersFlag},
	}
)

// decodeAction decodes the hex argument, or else every line of stdin. On a
// terminal the user is prompted until one transaction decodes.
func decodeAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "invalid config")
	}
	logrus.SetLevel(cfg.Level())

	chainConfig := blockchain.Config{}
	if cfg.Archive {
		chainConfig.ArchiveDir = cfg.ArchiveDir()
	}
	chain, err := blockchain.New(chainConfig)
	if err != nil {
		return err
	}
	defer chain.Close()

	if ctx.Args().Present() {
		raw, err := prompt.ParseHex(ctx.Args().First())
		if err != nil {
			return err
		}
		decoded, err := chain.Store(raw)
		if err != nil {
			return err
		}
		return printer.Write(os.Stdout, cfg.Format, *decoded)
	}

	reader := prompt.NewStdinReader()
	for {
		raw, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		decoded, err := chain.Store(raw)
		var decodeErr *stream.DecodeError
		if reader.Interactive && errors.As(err, &decodeErr) {
			fmt.Println(decodeErr)
			fmt.Println(prompt.RetryMessage)
			continue
		}
		if err != nil {
			return err
		}

		err = printer.Write(os.Stdout, cfg.Format, *decoded)
		if err != nil || reader.Interactive {
			return err
		}
	}
}

func loadAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "invalid config")
	}
	logrus.SetLevel(cfg.Level())

	if ctx.Bool(profileFlagName) {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(cfg.Datadir)).Stop()
	}

	chain, err := blockchain.New(blockchain.Config{ArchiveDir: cfg.ArchiveDir()})
	if err != nil {
		return err
	}
	defer chain.Close()

	finish := wireStats(chain)

	start := time.Now()
	result, err := loader.Load(chain, cfg.Workers)
	stats := finish()
	if err != nil {
		return err
	}
	logrus.Printf("loaded %d transactions in %s, %d failed", result.Loaded, time.Since(start), result.Failed)

	stats.Log()
	statsFile := ctx.String(statsFlagName)
	logrus.Printf("saving stats to %s", statsFile)
	return statsToCSV(stats, statsFile)
}

func serveAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "invalid config")
	}
	logrus.SetLevel(cfg.Level())
	logrus.Infof("fast-tx config: %s", cfg)

	if cfg.IndexPath != storage.InMemory {
		err = os.MkdirAll(filepath.Dir(cfg.IndexPath), 0755)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	index, err := storage.OpenIndex(cfg.IndexPath)
	if err != nil {
		return err
	}
	defer index.Close()

	chain, err := blockchain.New(blockchain.Config{ArchiveDir: cfg.ArchiveDir()})
	if err != nil {
		return err
	}
	defer chain.Close()

	chain.OnTransaction(func(tx blockchain.Decoded) {
		err := index.Add(tx.TxID, tx.WTxID, tx.Tx)
		if err != nil {
			logrus.Errorf("indexing %s: %+v", tx.TxID, err)
		}
	})

	indexed, err := index.Count()
	if err != nil {
		return err
	}
	if indexed == 0 {
		result, err := loader.Load(chain, cfg.Workers)
		if err != nil {
			return err
		}
		logrus.Printf("indexed %d archived transactions, %d failed", result.Loaded, result.Failed)
	} else {
		logrus.Printf("index already holds %d transactions", indexed)
	}

	srv := server.Start(cfg.Port, chain, index)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT, os.Interrupt)
	<-sigChan

	logrus.Debug("shutting down server...")
	return errors.WithStack(srv.Close())
}
