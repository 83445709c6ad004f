/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	baseDir    string
	dryRun     bool
	verbose    bool
)

// rootCmd represents the base command - runs directly without subcommand
var rootCmd = &cobra.Command{
	Use:   "nb",
	Short: "Run npm maintenance across every configured project",
	Long: `nb (npm-batch) asks a few questions and then runs npm audit, npm outdated,
npm update, an engines bump and npm install across every project listed in
the "projects" field of the configuration file.

The configuration file defaults to ./package.json (or $NB_CONFIG):

  {
    "projects": {
      "api": "services/api",
      "web": "services/web"
    }
  }

Audit and outdated reports are written to audit.txt and outdated.txt inside
each project directory.

Examples:
  nb
  nb --config projects.yaml
  nb --dry-run --verbose`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeRun(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code. The
// failure line shares stdout with the rest of the run output.
func run() int {
	if err := rootCmd.Execute(); err != nil {
		reportFailure(rootCmd.OutOrStdout(), err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file with a \"projects\" field (default: package.json, or env NB_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "Directory project paths are resolved against (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Ask the questions but spawn nothing and leave manifests untouched")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and echo raw command output")
}
