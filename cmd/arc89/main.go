// arc89 inspects ARC-89 metadata records, computes their hashes and fees,
// and reads or writes records in a configured record store.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"xdao.co/arc89/config"

	_ "xdao.co/arc89/boxstore/grpcstore"
	_ "xdao.co/arc89/boxstore/localfs"
	_ "xdao.co/arc89/boxstore/memstore"
)

var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code: 0 on success,
// 1 on a failed operation, 2 on a usage error.
func run(args []string, out, errOut io.Writer) int {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		if _, ok := err.(usageError); ok {
			return 2
		}
		return 1
	}
	return 0
}

type usageError struct{ error }

func usagef(format string, args ...any) error { return usageError{fmt.Errorf(format, args...)} }

type cli struct {
	cfgFile  string
	logLevel string
	cfg      config.Config
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "arc89",
		Short:         "ARC-89 metadata registry tool",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(
		c.boxNameCmd(),
		c.parseCmd(),
		c.hashCmd(),
		c.arc3HashCmd(),
		c.uriCmd(),
		c.mbrCmd(),
		c.pagesCmd(),
		c.chunksCmd(),
		c.resolveCmd(),
		c.storeCmd(),
		c.bundleCmd(),
		c.ipfsCmd(),
		c.backendsCmd(),
	)
	return root
}

func (c *cli) setup(errOut io.Writer) error {
	c.cfg = config.Default()
	if c.cfgFile != "" {
		cfg, err := config.Load(c.cfgFile)
		if err != nil {
			return err
		}
		c.cfg = cfg
	}
	if c.logLevel != "" {
		c.cfg.LogLevel = c.logLevel
	}
	level, err := zerolog.ParseLevel(c.cfg.LogLevel)
	if err != nil {
		return usagef("invalid log level %q", c.cfg.LogLevel)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: errOut})
	return nil
}
