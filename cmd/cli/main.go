package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host  string
	token string
)

var rootCmd = &cobra.Command{
	Use:   "roster-cli",
	Short: "A CLI to interact with the squad-roster server",
	Long: `A command-line interface for making requests to the various endpoints
of the squad-roster application.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ROSTER_TOKEN"), "Session token sent as a bearer token")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
