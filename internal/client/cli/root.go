package cli

import (
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/docanchor/internal/client/config"
	"github.com/dmitrijs2005/docanchor/internal/client/proof"
	"github.com/spf13/cobra"
)

type options struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	copier proof.Copier
}

type Option func(*options)

func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(o *options) {
		o.stdin, o.stdout, o.stderr = in, out, errOut
	}
}

// WithCopier replaces the system clipboard.
func WithCopier(c proof.Copier) Option {
	return func(o *options) { o.copier = c }
}

// state carries the App built in PersistentPreRunE to the subcommands.
type state struct {
	opts *options
	app  *App
}

func (s *state) close() {
	if s.app != nil {
		s.app.Close()
	}
}

// Run executes the CLI with args (without the program name).
func Run(ctx context.Context, args []string, opts ...Option) error {
	o := &options{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	for _, fn := range opts {
		fn(o)
	}

	st := &state{opts: o}
	defer st.close()

	root := newRootCommand(st)
	root.SetArgs(args)
	root.SetIn(o.stdin)
	root.SetOut(o.stdout)
	root.SetErr(o.stderr)
	return root.ExecuteContext(ctx)
}

func newRootCommand(st *state) *cobra.Command {
	var (
		configPath string
		server     string
		user       string
		logLevel   string
		network    string
	)

	root := &cobra.Command{
		Use:   "docanchor",
		Short: "Anchor document digests on a public ledger",
		Long: styleHeader.Render("docanchor") + " - document anchoring client\n\n" +
			"Hashes files locally, submits them to the anchoring service and shows the\n" +
			"ledger proof (file id, transaction id, explorer link) once they are recorded.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("server") {
				cfg.ServerBaseURL = server
			}
			if flags.Changed("user") {
				cfg.UserID = user
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("network") {
				cfg.Network = network
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			st.app, err = NewApp(cfg, st.opts)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to a JSON or YAML config file")
	pf.StringVarP(&server, "server", "a", "", "anchoring service base URL")
	pf.StringVarP(&user, "user", "u", "", "user id sent with every request")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&network, "network", "", "ledger network used for explorer links")

	root.AddCommand(
		newUploadCommand(st),
		newListCommand(st),
		newShowCommand(st),
		newVerifyCommand(st),
		newHashCommand(st),
		newWatchCommand(st),
		newVersionCommand(),
	)
	return root
}
