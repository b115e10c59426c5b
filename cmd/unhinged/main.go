package main

import (
	"os"

	"github.com/brizzai/unhinged/internal/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	Execute()
}

var startRoute string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "unhinged",
	Short: "The dating app where your red flags are the main attraction",
	Long: `Unhinged is a terminal client for the Unhinged dating app.
Swipe through profiles, chat with your matches and let the AI roast you,
all without leaving the shell.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, startRoute)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
	rootCmd.Flags().StringVar(&startRoute, "route", "/", "Screen to open, e.g. /matches or /chat/<match id>")

	rootCmd.AddCommand(
		loginCmd,
		registerCmd,
		oauthCmd,
		callbackCmd,
		logoutCmd,
		whoamiCmd,
		versionCmd,
	)
}
