package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/config"
	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/logging"
)

type cli struct {
	out        io.Writer
	configFile string
	v          *viper.Viper
	cfg        config.Config
	logger     logging.Logger
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{out: out, v: config.New()}

	root := &cobra.Command{
		Use:           "path2learn",
		Short:         "Upload syllabus and notes files with an instant preview",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default ./path2learn.yaml or ~/.path2learn/path2learn.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "log format: text or json")

	root.AddCommand(newServeCommand(c))
	root.AddCommand(newUploadCommand(c))
	root.AddCommand(newBindingsCommand(c))
	return root
}

// load resolves configuration once the command line has been parsed, so
// flags of the running subcommand take precedence over file and env.
func (c *cli) load(cmd *cobra.Command) error {
	err := config.BindFlags(c.v, cmd.Flags(), map[string]string{
		"log-level":  "log.level",
		"log-format": "log.format",
		"origin":     "origin",
		"addr":       "server.addr",
		"static-dir": "server.static_dir",
		"upstream":   "server.upstream",
		"tls":        "server.tls",
	})
	if err != nil {
		return err
	}
	cfg, err := config.Load(c.v, c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}
