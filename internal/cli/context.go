// Package cli provides the command-line interface for the pdp extractor.
package cli

import (
	"context"

	"github.com/law-makers/pdp/internal/app"
	"github.com/spf13/cobra"
)

// ctxKey is used for storing app context in cobra commands
type ctxKey string

const appKey ctxKey = "app"

// current is closed by Execute once the command returns, even on error
var current *app.Application

// SetApp stores the Application in the command's context
func SetApp(cmd *cobra.Command, a *app.Application) {
	current = a
	if cmd == nil {
		return
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appKey, a))
}

// GetAppFromCmd retrieves the Application stored by SetApp
func GetAppFromCmd(cmd *cobra.Command) *app.Application {
	if cmd == nil || cmd.Context() == nil {
		return nil
	}
	a, _ := cmd.Context().Value(appKey).(*app.Application)
	return a
}
