// Package commands provides the operations behind templative's CLI.
//
// Each command is implemented in its own subdirectory:
//   - add/        - register a template
//   - remove/     - deregister templates
//   - change/     - edit a template field by field
//   - list/       - classify registered templates
//   - update/     - refresh git-backed templates
//   - initialize/ - materialize a template into a directory
//
// This file re-exports the command functions so callers need one import.
package commands

import (
	"context"

	"github.com/Serenacula/templative/pkg/commands/add"
	"github.com/Serenacula/templative/pkg/commands/change"
	"github.com/Serenacula/templative/pkg/commands/initialize"
	"github.com/Serenacula/templative/pkg/commands/list"
	"github.com/Serenacula/templative/pkg/commands/remove"
	"github.com/Serenacula/templative/pkg/commands/update"
	"github.com/Serenacula/templative/pkg/materialize"
)

// AddOptions configures Add
type AddOptions = add.AddOptions

// Add registers a local directory or git URL as a template.
func Add(ctx context.Context, opts AddOptions) (*add.AddResult, error) {
	return add.Add(ctx, opts)
}

// RemoveOptions configures Remove
type RemoveOptions = remove.RemoveOptions

// Remove deregisters templates, all or none.
func Remove(opts RemoveOptions) (*remove.RemoveResult, error) {
	return remove.Remove(opts)
}

// ChangeOptions configures Change
type ChangeOptions = change.ChangeOptions

// Change edits a registered template.
func Change(opts ChangeOptions) (*change.ChangeResult, error) {
	return change.Change(opts)
}

// ListOptions configures List
type ListOptions = list.ListOptions

// List classifies every registered template.
func List(ctx context.Context, opts ListOptions) (*list.ListResult, error) {
	return list.List(ctx, opts)
}

// UpdateOptions configures Update
type UpdateOptions = update.UpdateOptions

// Update refreshes cached URL templates and local git templates.
func Update(ctx context.Context, opts UpdateOptions) (*update.UpdateResult, error) {
	return update.Update(ctx, opts)
}

// InitOptions configures Init
type InitOptions = initialize.InitOptions

// Init materializes a registered template into a directory.
func Init(ctx context.Context, opts InitOptions) (*materialize.Result, error) {
	return initialize.Init(ctx, opts)
}
