package templative

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Create projects from registered templates"
	MsgInitShort       = "Create a project from a template"
	MsgAddShort        = "Register a directory or git URL as a template"
	MsgRemoveShort     = "Deregister templates"
	MsgChangeShort     = "Edit a registered template"
	MsgListShort       = "List registered templates"
	MsgUpdateShort     = "Update git-backed templates"
	MsgCompletionShort = "Generate shell completion script"
	MsgVersionShort    = "Print version information"

	// Status messages
	MsgCreated         = "created %s from %s"
	MsgSkippedCount    = "kept %d existing file(s)"
	MsgOverwriteCount  = "overwrote %d file(s)"
	MsgBrokenLink      = "copied broken symlink %s"
	MsgPostInitFailed  = "post-init hook failed: %s"
	MsgAdded           = "added template %s (%s)"
	MsgRemoved         = "removed template %s"
	MsgChanged         = "updated template %s"
	MsgRenamed         = "renamed template %s to %s"
	MsgNoTemplates     = "no templates available: use `templative add <FOLDER>` to add a template"
	MsgNoRegistered    = "no templates registered"
	MsgUpdateStatus    = "%s: %s\n"
	MsgVersionFormat   = "templative version %s\n  commit: %s\n  built:  %s\n"
	MsgTableName       = "NAME"
	MsgTableStatus     = "STATUS"
	MsgTableDesc       = "DESCRIPTION"
	MsgTableLocation   = "LOCATION"
	MsgNoCommandGiven  = "no command specified"
	MsgErrUnknownShell = "unknown shell %q (expected bash, zsh, fish or powershell)"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat       = "Output format: auto, term, text or json"
	MsgFlagFresh        = "Start a new git repository with one commit"
	MsgFlagPreserve     = "Clone the template, keeping its history"
	MsgFlagNoGit        = "Copy files only"
	MsgFlagWriteMode    = "strict, no-overwrite, skip, overwrite or ask"
	MsgFlagForce        = "Shorthand for --write-mode overwrite"
	MsgFlagName         = "Template name"
	MsgFlagDescription  = "Short description shown by list"
	MsgFlagLocation     = "New directory or git URL"
	MsgFlagGit          = "Git mode override: fresh, preserve or no-git"
	MsgFlagGitRef       = "Branch, tag or commit to check out"
	MsgFlagNoCache      = "Clone URL templates fresh on every init"
	MsgFlagNoCacheValue = "true, false or none"
	MsgFlagPreInit      = "Shell command run in the target before copying"
	MsgFlagPostInit     = "Shell command run in the target after copying"
	MsgFlagExclude      = "Pattern to exclude (repeatable)"
	MsgFlagCheck        = "Only report whether updates are available"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/add-long.txt
	msgAddLongRaw string
	MsgAddLong    = strings.TrimSpace(msgAddLongRaw)

	//go:embed msgs/add-example.txt
	msgAddExampleRaw string
	MsgAddExample    = strings.TrimRight(msgAddExampleRaw, "\n")

	//go:embed msgs/change-long.txt
	msgChangeLongRaw string
	MsgChangeLong    = strings.TrimSpace(msgChangeLongRaw)

	//go:embed msgs/change-example.txt
	msgChangeExampleRaw string
	MsgChangeExample    = strings.TrimRight(msgChangeExampleRaw, "\n")

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
