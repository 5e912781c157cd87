package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	matchType string
	fromDate  string
	toDate    string
)

func init() {
	for _, c := range []*cobra.Command{leaderboardCmd, reportCmd} {
		c.Flags().StringVar(&matchType, "match-type", "", "Only count matches of this type (BR, CS, Scrims, Custom)")
		c.Flags().StringVar(&fromDate, "start", "", "First day to include, YYYY-MM-DD")
		c.Flags().StringVar(&toDate, "end", "", "Last day to include, YYYY-MM-DD")
	}

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in and print a session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := json.Marshal(map[string]string{"username": args[0], "password": args[1]})
		if err != nil {
			return err
		}
		return performRequest(http.MethodPost, "/login", body)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the ranked leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/leaderboard"+filterQuery(), nil)
	},
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Show the public roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/public/roster", nil)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the per-player report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/report"+filterQuery(), nil)
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the most recent activity (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/activity", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

func filterQuery() string {
	q := url.Values{}
	if matchType != "" {
		q.Set("match_type", matchType)
	}
	if fromDate != "" {
		q.Set("start", fromDate)
	}
	if toDate != "" {
		q.Set("end", toDate)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func performRequest(method, endpoint string, payload []byte) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
