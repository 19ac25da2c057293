package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var shareDryRun bool

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(tournamentsCmd)
	rootCmd.AddCommand(selectPlayerCmd)
	rootCmd.AddCommand(selectTournamentCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(watchCmd)

	shareCmd.Flags().BoolVar(&shareDryRun, "dry-run", false, "Log the Slack message instead of posting it")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the current selection and resolved stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/state")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the selectable players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "List the loaded tournament catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/tournaments")
	},
}

var selectPlayerCmd = &cobra.Command{
	Use:   "select-player [player-id]",
	Short: "Select a player; omit the id to clear the selection",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/select/player", selectBody(args))
	},
}

var selectTournamentCmd = &cobra.Command{
	Use:   "select-tournament [event-id]",
	Short: "Select a tournament for the current player; omit the id to clear it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/select/tournament", selectBody(args))
	},
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Post the current stats to Slack",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/share"
		if shareDryRun {
			endpoint += "?dry_run=true"
		}
		return performPostRequest(endpoint, nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream selection state changes until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchState(cmd.OutOrStdout())
	},
}

func selectBody(args []string) map[string]string {
	id := ""
	if len(args) == 1 {
		id = args[0]
	}
	return map[string]string{"id": id}
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func performPostRequest(endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	resp, err := http.Post(url, "application/json", body)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

// stateSummary is the part of the server's state view that watch prints.
type stateSummary struct {
	PlayerName   string `json:"playerName"`
	PlayerID     string `json:"playerId"`
	TournamentID string `json:"tournamentId"`
	Phase        string `json:"phase"`
	Placeholder  string `json:"placeholder"`
	Tournaments  []struct {
		DisplayName string `json:"displayName"`
	} `json:"tournaments"`
	Cards []struct {
		Title   string `json:"title"`
		Value   string `json:"value"`
		Subtext string `json:"subtext"`
	} `json:"cards"`
}

func wsURL() (string, error) {
	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("invalid host: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

func watchState(out io.Writer) error {
	target, err := wsURL()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Watching %s\n", target)

	conn, _, err := websocket.DefaultDialer.Dial(target, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	for {
		var state stateSummary
		if err := conn.ReadJSON(&state); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("stream ended: %w", err)
		}
		printState(out, state)
	}
}

func printState(out io.Writer, state stateSummary) {
	player := state.PlayerName
	if player == "" {
		player = state.PlayerID
	}
	fmt.Fprintf(out, "[%s] player=%q tournament=%q\n", state.Phase, player, state.TournamentID)
	if len(state.Cards) == 0 {
		fmt.Fprintf(out, "  %s (%d tournaments)\n", state.Placeholder, len(state.Tournaments))
		return
	}
	for _, c := range state.Cards {
		line := fmt.Sprintf("  %-18s %s", c.Title, c.Value)
		if c.Subtext != "" {
			line += "  (" + c.Subtext + ")"
		}
		fmt.Fprintln(out, line)
	}
}
