package templative

import (
	"fmt"

	"github.com/Serenacula/templative/internal/version"
	"github.com/Serenacula/templative/pkg/commands"
	"github.com/Serenacula/templative/pkg/commands/change"
	"github.com/Serenacula/templative/pkg/commands/list"
	"github.com/Serenacula/templative/pkg/commands/update"
	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/options"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/Serenacula/templative/pkg/ui"
	"github.com/Serenacula/templative/pkg/ui/prompt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newInitCmd(g *globals) *cobra.Command {
	var (
		fresh, preserve, noGit, force bool
		writeMode                     string
	)

	cmd := &cobra.Command{
		Use:               "init <template> [path]",
		Short:             MsgInitShort,
		Long:              MsgInitLong,
		Example:           MsgInitExample,
		GroupID:           "core",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: firstArgTemplateName,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.session(cmd)
			if err != nil {
				return err
			}

			var flags options.Flags
			switch {
			case fresh:
				flags.GitMode = types.Ptr(types.GitModeFresh)
			case preserve:
				flags.GitMode = types.Ptr(types.GitModePreserve)
			case noGit:
				flags.GitMode = types.Ptr(types.GitModeNoGit)
			}
			switch {
			case force:
				flags.WriteMode = types.Ptr(types.WriteModeOverwrite)
			case writeMode != "":
				mode, err := parseWriteMode(writeMode)
				if err != nil {
					return err
				}
				flags.WriteMode = &mode
			}

			target := "."
			if len(args) > 1 {
				target = args[1]
			}

			result, err := commands.Init(cmd.Context(), commands.InitOptions{
				Paths:        s.paths,
				Config:       s.config,
				Prompter:     prompt.ForStdin(),
				HookOutput:   cmd.OutOrStdout(),
				TemplateName: args[0],
				Target:       target,
				Flags:        flags,
			})
			if err != nil {
				return err
			}

			if report := result.Report; report != nil {
				for _, link := range report.BrokenLinks {
					s.printer.Warning(MsgBrokenLink, link)
				}
				if n := len(report.Skipped); n > 0 {
					s.printer.Println("Muted", fmt.Sprintf(MsgSkippedCount, n))
				}
				if n := len(report.Overwritten); n > 0 {
					s.printer.Println("Muted", fmt.Sprintf(MsgOverwriteCount, n))
				}
			}
			if result.PostInitErr != nil {
				s.printer.Warning(MsgPostInitFailed, result.PostInitErr.Error())
			}
			s.printer.Success(MsgCreated, result.Target, result.Template.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fresh, "fresh", false, MsgFlagFresh)
	cmd.Flags().BoolVar(&preserve, "preserve", false, MsgFlagPreserve)
	cmd.Flags().BoolVar(&noGit, "no-git", false, MsgFlagNoGit)
	cmd.Flags().StringVar(&writeMode, "write-mode", "", MsgFlagWriteMode)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.MarkFlagsMutuallyExclusive("fresh", "preserve", "no-git")
	cmd.MarkFlagsMutuallyExclusive("write-mode", "force")
	_ = cmd.RegisterFlagCompletionFunc("write-mode", modeCompletion(writeModeNames()))

	return cmd
}

func newAddCmd(g *globals) *cobra.Command {
	var (
		name, description, gitMode, gitRef string
		preInit, postInit, writeMode        string
		noCache                             bool
		exclude                             []string
	)

	cmd := &cobra.Command{
		Use:     "add <path|url>",
		Short:   MsgAddShort,
		Long:    MsgAddLong,
		Example: MsgAddExample,
		GroupID: "templates",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.session(cmd)
			if err != nil {
				return err
			}

			opts := commands.AddOptions{
				Paths:       s.paths,
				Location:    args[0],
				Name:        name,
				Description: description,
				GitRef:      gitRef,
				PreInit:     preInit,
				PostInit:    postInit,
				Exclude:     exclude,
			}
			if cmd.Flags().Changed("git") {
				mode, err := parseGitMode(gitMode)
				if err != nil {
					return err
				}
				opts.GitMode = &mode
			}
			if cmd.Flags().Changed("write-mode") {
				mode, err := parseWriteMode(writeMode)
				if err != nil {
					return err
				}
				opts.WriteMode = &mode
			}
			if cmd.Flags().Changed("no-cache") {
				opts.NoCache = types.Ptr(noCache)
			}

			result, err := commands.Add(cmd.Context(), opts)
			if err != nil {
				return err
			}
			s.printer.Success(MsgAdded, result.Template.Name, result.Template.Location)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&description, "description", "", MsgFlagDescription)
	cmd.Flags().StringVar(&gitMode, "git", "", MsgFlagGit)
	cmd.Flags().StringVar(&gitRef, "git-ref", "", MsgFlagGitRef)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, MsgFlagNoCache)
	cmd.Flags().StringVar(&preInit, "pre-init", "", MsgFlagPreInit)
	cmd.Flags().StringVar(&postInit, "post-init", "", MsgFlagPostInit)
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, MsgFlagExclude)
	cmd.Flags().StringVar(&writeMode, "write-mode", "", MsgFlagWriteMode)
	_ = cmd.RegisterFlagCompletionFunc("git", modeCompletion(gitModeNames()))
	_ = cmd.RegisterFlagCompletionFunc("write-mode", modeCompletion(writeModeNames()))

	return cmd
}

func newRemoveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:               "remove <template>...",
		Aliases:           []string{"rm"},
		Short:             MsgRemoveShort,
		GroupID:           "templates",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.session(cmd)
			if err != nil {
				return err
			}
			result, err := commands.Remove(commands.RemoveOptions{Paths: s.paths, Names: args})
			if err != nil {
				return err
			}
			for _, name := range result.Removed {
				s.printer.Success(MsgRemoved, name)
			}
			return nil
		},
	}
}

func newChangeCmd(g *globals) *cobra.Command {
	var (
		name, description, location, gitMode string
		preInit, postInit, gitRef, noCache    string
		writeMode                             string
		exclude                               []string
	)

	cmd := &cobra.Command{
		Use:               "change <template>",
		Short:             MsgChangeShort,
		Long:              MsgChangeLong,
		Example:           MsgChangeExample,
		GroupID:           "templates",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: firstArgTemplateName,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.session(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			pick := func(flag, value string) *string {
				if !flags.Changed(flag) {
					return nil
				}
				return types.Ptr(value)
			}
			changes := change.Changes{
				Name:        pick("name", name),
				Description: pick("description", description),
				Location:    pick("location", location),
				GitMode:     pick("git", gitMode),
				PreInit:     pick("pre-init", preInit),
				PostInit:    pick("post-init", postInit),
				GitRef:      pick("git-ref", gitRef),
				NoCache:     pick("no-cache", noCache),
				WriteMode:   pick("write-mode", writeMode),
			}
			if flags.Changed("exclude") {
				changes.Exclude = exclude
			}

			result, err := commands.Change(commands.ChangeOptions{Paths: s.paths, Name: args[0], Changes: changes})
			if err != nil {
				return err
			}
			if result.Template.Name != result.OldName {
				s.printer.Success(MsgRenamed, result.OldName, result.Template.Name)
			} else {
				s.printer.Success(MsgChanged, result.Template.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&description, "description", "", MsgFlagDescription)
	cmd.Flags().StringVar(&location, "location", "", MsgFlagLocation)
	cmd.Flags().StringVar(&gitMode, "git", "", MsgFlagGit)
	cmd.Flags().StringVar(&preInit, "pre-init", "", MsgFlagPreInit)
	cmd.Flags().StringVar(&postInit, "post-init", "", MsgFlagPostInit)
	cmd.Flags().StringVar(&gitRef, "git-ref", "", MsgFlagGitRef)
	cmd.Flags().StringVar(&noCache, "no-cache", "", MsgFlagNoCacheValue)
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, MsgFlagExclude)
	cmd.Flags().StringVar(&writeMode, "write-mode", "", MsgFlagWriteMode)
	_ = cmd.RegisterFlagCompletionFunc("git", modeCompletion(append(gitModeNames(), change.None)))
	_ = cmd.RegisterFlagCompletionFunc("write-mode", modeCompletion(append(writeModeNames(), change.None)))

	return cmd
}

// statusStyles maps list kinds to ui style names
var statusStyles = map[list.Kind]string{
	list.KindNormal:  "StatusNormal",
	list.KindNoGit:   "StatusNoGit",
	list.KindInfo:    "StatusInfo",
	list.KindProblem: "StatusProblem",
	list.KindGone:    "StatusGone",
}

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		GroupID: "templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.session(cmd)
			if err != nil {
				return err
			}
			result, err := commands.List(cmd.Context(), commands.ListOptions{Paths: s.paths})
			if err != nil {
				return err
			}
			if s.format == ui.FormatJSON {
				entries := result.Entries
				if entries == nil {
					entries = []list.Entry{}
				}
				return ui.RenderJSON(cmd.OutOrStdout(), entries)
			}
			if len(result.Entries) == 0 {
				s.printer.Printf("%s\n", MsgNoTemplates)
				return nil
			}

			rows := make([]ui.Row, 0, len(result.Entries))
			for _, e := range result.Entries {
				rows = append(rows, ui.Row{
					Cells: []string{e.Name, e.Status, e.Description, e.Location},
					Style: statusStyles[e.Kind],
				})
			}
			s.printer.Table([]string{MsgTableName, MsgTableStatus, MsgTableDesc, MsgTableLocation}, rows)
			return nil
		},
	}
}

func newUpdateCmd(g *globals) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:               "update [template]",
		Short:             MsgUpdateShort,
		Long:              MsgUpdateLong,
		GroupID:           "templates",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.session(cmd)
			if err != nil {
				return err
			}
			opts := commands.UpdateOptions{Paths: s.paths, Check: check}
			if len(args) == 1 {
				opts.Name = args[0]
			}

			result, err := commands.Update(cmd.Context(), opts)
			if result != nil && s.format == ui.FormatJSON {
				if jsonErr := ui.RenderJSON(cmd.OutOrStdout(), outcomeViews(result.Outcomes)); jsonErr != nil {
					return jsonErr
				}
				return err
			}
			if result != nil {
				if len(result.Outcomes) == 0 {
					s.printer.Printf("%s\n", MsgNoRegistered)
				}
				for _, o := range result.Outcomes {
					if o.Err == nil {
						s.printer.Printf(MsgUpdateStatus, o.Name, o.Status)
					}
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, MsgFlagCheck)
	return cmd
}

type outcomeView struct {
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

func outcomeViews(outcomes []update.Outcome) []outcomeView {
	views := make([]outcomeView, 0, len(outcomes))
	for _, o := range outcomes {
		v := outcomeView{Name: o.Name, Status: o.Status}
		if o.Err != nil {
			v.Error = o.Err.Error()
		}
		views = append(views, v)
	}
	return views
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf(MsgErrUnknownShell, args[0])
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			log.Debug().Str("version", version.Version).Msg("Printing version")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func parseGitMode(s string) (types.GitMode, error) {
	mode, err := types.ParseGitMode(s)
	if err != nil {
		return mode, errors.Wrap(err, errors.ErrInvalidInput, "invalid --git value")
	}
	return mode, nil
}

func parseWriteMode(s string) (types.WriteMode, error) {
	mode, err := types.ParseWriteMode(s)
	if err != nil {
		return mode, errors.Wrap(err, errors.ErrInvalidInput, "invalid --write-mode value")
	}
	return mode, nil
}

func gitModeNames() []string {
	var names []string
	for _, m := range types.GitModes() {
		names = append(names, m.String())
	}
	return names
}

func writeModeNames() []string {
	var names []string
	for _, m := range types.WriteModes() {
		names = append(names, m.String())
	}
	return names
}

func modeCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

