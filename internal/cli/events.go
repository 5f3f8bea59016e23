package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/grabble/internal/model"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <code>",
		Short: "Stream SSE events from a room",
		Long: `Connect to the room's event stream and print events in real-time.

Events include:
  - room-update: Members, ready flags or config changed
  - game-started: Game has started
  - tiles-placed: Tiles dropped onto the board
  - tile-removed: A tile was taken back
  - blank-set: A blank was given a letter
  - words-claimed: Words were scored
  - tiles-swapped: Rack tiles went back to the bag
  - turn-changed: Next player's turn
  - game-ended: Game finished

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// SSEEvent is one event read off the stream
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, code string, jsonOutput bool) error {
	target := strings.TrimSuffix(cfg.ServerURL, "/") + roomPath(code, "events")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	// No timeout: the stream stays open until interrupted
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Code != "" {
			errResp.Error.Status = resp.StatusCode
			return &errResp.Error
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	out := NewOutput(cfg.Output)
	if !jsonOutput {
		out.PrintMessage(fmt.Sprintf("Connected to room %s", strings.ToUpper(code)))
	}

	err = readEvents(resp.Body, func(evt SSEEvent) {
		evt.Time = time.Now()
		if jsonOutput {
			data, _ := json.Marshal(evt)
			fmt.Fprintln(out.w, string(data))
			return
		}
		fmt.Fprintf(out.w, "[%s] %s\n", evt.Time.Format("15:04:05"), describeEvent(evt))
	})

	// Interrupting the stream is the normal way to stop
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		out.PrintMessage("Disconnected")
	}
	return nil
}

// readEvents parses an SSE stream, calling fn once per complete event.
// Multi-line data is joined with newlines.
func readEvents(r io.Reader, fn func(SSEEvent)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var current SSEEvent
	var data []string

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			current.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case line == "":
			if current.Event != "" {
				current.Data = strings.Join(data, "\n")
				fn(current)
			}
			current = SSEEvent{}
			data = nil
		}
	}

	return scanner.Err()
}

// streamedEvent is the part of an event's data the text output reads
type streamedEvent struct {
	UserID model.UserID `json:"user_id"`
	Game   *struct {
		CurrentPlayerID model.PlayerID     `json:"current_player_id"`
		Players         []model.PlayerView `json:"players"`
		BagCount        int                `json:"bag_count"`
	} `json:"game"`
}

// describeEvent renders a one-line summary of an event
func describeEvent(evt SSEEvent) string {
	var se streamedEvent
	if err := json.Unmarshal([]byte(evt.Data), &se); err != nil || se.Game == nil {
		summary := strings.ReplaceAll(evt.Data, "\n", " ")
		if len(summary) > 100 {
			summary = summary[:100] + "..."
		}
		return fmt.Sprintf("%s: %s", evt.Event, summary)
	}

	scores := make([]string, len(se.Game.Players))
	current := ""
	for i, p := range se.Game.Players {
		scores[i] = fmt.Sprintf("%s %d", p.Name, p.Score)
		if p.ID == se.Game.CurrentPlayerID {
			current = p.Name
		}
	}

	line := fmt.Sprintf("%s: %s | bag %d", evt.Event, strings.Join(scores, ", "), se.Game.BagCount)
	if current != "" {
		line += " | turn: " + current
	}
	return line
}
