package templative

import (
	"fmt"
	"io"
	"os"

	"github.com/Serenacula/templative/internal/version"
	"github.com/Serenacula/templative/pkg/config"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globals holds the persistent flag values shared by every subcommand
type globals struct {
	verbosity int
	format    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "templative",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgNoCommandGiven)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "templates", Title: "TEMPLATES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInitCmd(g))
	rootCmd.AddCommand(newAddCmd(g))
	rootCmd.AddCommand(newRemoveCmd(g))
	rootCmd.AddCommand(newChangeCmd(g))
	rootCmd.AddCommand(newListCmd(g))
	rootCmd.AddCommand(newUpdateCmd(g))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// session is what a command needs once flags are parsed
type session struct {
	paths   *paths.Paths
	config  *config.Config
	format  ui.Format
	printer *ui.Printer
}

func (g *globals) session(cmd *cobra.Command) (*session, error) {
	p := paths.New()
	cfg, err := config.LoadOrCreate(p.ConfigFile())
	if err != nil {
		return nil, err
	}
	format, err := ui.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}
	return &session{
		paths:   p,
		config:  cfg,
		format:  format,
		printer: newPrinter(cmd.OutOrStdout(), format, cfg.Color),
	}, nil
}

// newPrinter decides on color from --format, the config color key and the
// output itself. Writers other than a terminal never get color in auto mode.
func newPrinter(out io.Writer, format ui.Format, configColor bool) *ui.Printer {
	color := false
	switch format {
	case ui.FormatTerminal:
		color = true
	case ui.FormatAuto:
		if f, ok := out.(*os.File); ok {
			color = ui.ColorEnabled(f, configColor)
		}
	}
	return ui.NewPrinter(out, color)
}

// templateNamesCompletion provides shell completion for template names
func templateNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	reg, err := registry.Load(paths.New().RegistryFile())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var available []string
	for _, name := range reg.Names() {
		found := false
		for _, arg := range args {
			if arg == name {
				found = true
				break
			}
		}
		if !found {
			available = append(available, name)
		}
	}
	return available, cobra.ShellCompDirectiveNoFileComp
}

// firstArgTemplateName completes a template name for the first argument
// and falls back to directories after it
func firstArgTemplateName(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}
	return templateNamesCompletion(cmd, args, toComplete)
}
