package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brizzai/unhinged/internal/api"
	"github.com/brizzai/unhinged/internal/auth"
	"github.com/brizzai/unhinged/internal/config"
	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/brizzai/unhinged/internal/server"
	"github.com/brizzai/unhinged/internal/session"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, router.PathLogin)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, router.PathRegister)
	},
}

var oauthCmd = &cobra.Command{
	Use:   "oauth",
	Short: "Sign in with Google through the browser",
	Long: `Starts the local receiver, prints the sign-in URL and waits for the
browser to come back with a session id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			oauth    *auth.Service
			receiver *server.Server
			handler  *auth.CallbackHandler
		)
		capture := fx.Invoke(func(s *auth.Service, r *server.Server, c *api.Client, st *session.Store, log *zap.Logger) {
			oauth, receiver = s, r
			handler = auth.NewCallbackHandler(c, st, log)
		})
		return withApp(cmd, router.PathLanding, func(ctx context.Context) error {
			ln, err := receiver.Listen()
			if err != nil {
				return err
			}
			pterm.Info.Println("Open this URL to sign in:")
			pterm.Println(pterm.LightMagenta(oauth.AuthorizeURL()))

			spinner, _ := pterm.DefaultSpinner.Start("Waiting for the browser...")
			fragment, err := receiver.Receive(ctx, ln)
			if err != nil {
				spinner.Fail("Browser sign-in stopped")
				return err
			}
			spinner.Success("Browser is back")
			return finishCallback(ctx, handler, fragment)
		}, capture)
	},
}

var callbackCmd = &cobra.Command{
	Use:   "callback <redirect url>",
	Short: "Finish a browser sign-in from a pasted redirect URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var handler *auth.CallbackHandler
		capture := fx.Invoke(func(c *api.Client, st *session.Store, log *zap.Logger) {
			handler = auth.NewCallbackHandler(c, st, log)
		})
		return withApp(cmd, router.PathLanding, func(ctx context.Context) error {
			return finishCallback(ctx, handler, fragmentOf(args[0]))
		}, capture)
	},
}

// fragmentOf takes the part after '#', or all of raw when there is none
func fragmentOf(raw string) string {
	if _, fragment, ok := strings.Cut(raw, "#"); ok {
		return fragment
	}
	return raw
}

func finishCallback(ctx context.Context, handler *auth.CallbackHandler, fragment string) error {
	outcome, _ := handler.Handle(ctx, fragment)
	if outcome.Err != nil {
		if outcome.Notice != "" {
			pterm.Error.Println(outcome.Notice)
		}
		return outcome.Err
	}
	pterm.Success.Println(outcome.Notice)
	if outcome.Path == router.PathProfileSetup {
		pterm.Info.Println("Your profile is not finished yet. Run unhinged to set it up.")
	}
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		var store *session.Store
		capture := fx.Invoke(func(st *session.Store) { store = st })
		return withApp(cmd, router.PathLanding, func(ctx context.Context) error {
			if store.Load() == "" {
				pterm.Info.Println("Not signed in.")
				return nil
			}
			store.Logout(ctx)
			pterm.Success.Println("Logged out. The chaos continues without you.")
			return nil
		}, capture)
	},
}

var errSignedOut = errors.New("not signed in")

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			store  *session.Store
			boot   *session.Bootstrapper
			tokens *session.FileTokenStore
		)
		capture := fx.Invoke(func(st *session.Store, b *session.Bootstrapper, f *session.FileTokenStore) {
			store, boot, tokens = st, b, f
		})
		return withApp(cmd, router.PathLanding, func(ctx context.Context) error {
			boot.Check(ctx)
			snap := store.Snapshot()
			if !snap.Authenticated() {
				pterm.Warning.Println("Not signed in. Run unhinged login or unhinged oauth.")
				return errSignedOut
			}
			printUser(snap.User, tokens.Path())
			return nil
		}, capture)
	},
}

func printUser(u *models.UserProfile, sessionFile string) {
	status := pterm.LightYellow("incomplete profile")
	if u.ProfileComplete {
		status = pterm.LightGreen("chaos certified")
	}
	age := "-"
	if u.Age != nil {
		age = fmt.Sprint(*u.Age)
	}
	data := pterm.TableData{
		{"Name", u.DisplayedName()},
		{"Email", u.Email},
		{"Age", age},
		{"Location", u.Location},
		{"Red flags", strings.Join(u.RedFlags, ", ")},
		{"Status", status},
		{"Session file", sessionFile},
	}
	_ = pterm.DefaultTable.WithData(data).Render()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		pterm.Info.Println(config.GetVersionInfo())
	},
}
