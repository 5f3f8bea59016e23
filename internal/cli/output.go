package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcoot/grabble/internal/api/response"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/bot"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printAuth(v)
	case response.Room:
		o.printRoom(v)
	case response.Game:
		o.printGame(v)
	case response.PlaceResponse:
		fmt.Fprintf(o.w, "Placed at %s\n", formatPositions(v.Positions))
		o.printGame(v.Game)
	case response.ClaimResponse:
		o.printClaimResult(v.Result)
		o.printBotActions(v.BotActions)
		o.printGame(v.Game)
	case model.ClaimBatchResult:
		o.printClaimResult(v)
	case response.TurnResponse:
		o.printBotActions(v.BotActions)
		o.printGame(v.Game)
	case response.Health:
		o.printHealth(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printPlayer(p response.Player) {
	kind := "registered"
	switch {
	case p.IsBot:
		kind = "bot (" + p.BotStrategy + ")"
	case p.IsGuest:
		kind = "guest"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Type: %s\n", kind)
}

func (o *Output) printAuth(a response.AuthResponse) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
	fmt.Fprintf(o.w, "Expires: %s\n", a.ExpiresAt.Format("2006-01-02 15:04:05"))
}

func (o *Output) printRoom(r response.Room) {
	fmt.Fprintf(o.w, "Room: %s\n", r.Code)
	fmt.Fprintf(o.w, "Status: %s\n", r.Status)
	fmt.Fprintf(o.w, "Target Score: %d\n", r.Config.TargetScore)
	if r.HasPassword {
		fmt.Fprintln(o.w, "Password: required")
	}
	fmt.Fprintf(o.w, "Members (%d):\n", len(r.Members))
	for _, m := range r.Members {
		var tags []string
		if m.IsHost {
			tags = append(tags, "host")
		}
		if m.Player.IsBot {
			tags = append(tags, "bot")
		}
		if m.Ready {
			tags = append(tags, "ready")
		}
		if m.Seat != nil {
			tags = append(tags, fmt.Sprintf("seat %d", *m.Seat))
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Fprintf(o.w, "  - %s (%s)%s\n", m.Player.DisplayName, m.Player.ID, suffix)
	}
	if len(r.GameHistory) > 0 {
		fmt.Fprintln(o.w, "History:")
		for _, g := range r.GameHistory {
			fmt.Fprintf(o.w, "  %s won (%s)\n", g.Winner, g.CompletedAt.Format("2006-01-02 15:04"))
		}
	}
}

func (o *Output) printGame(g response.Game) {
	if g.GameView == nil {
		return
	}

	fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	fmt.Fprintf(o.w, "Target: %d  Bag: %d\n", g.TargetScore, g.BagCount)
	fmt.Fprintln(o.w)
	o.printBoard(&g.Board)
	fmt.Fprintln(o.w)

	fmt.Fprintln(o.w, "Players:")
	for _, p := range g.Players {
		marker := "  "
		if p.ID == g.CurrentPlayerID {
			marker = "> "
		}
		fmt.Fprintf(o.w, "%s%d %s: %d points, %d tiles\n", marker, p.ID, p.Name, p.Score, p.RackCount)
	}

	for _, p := range g.Players {
		if p.Rack != nil {
			fmt.Fprintf(o.w, "\nYour rack: %s\n", formatRack(p.Rack))
		}
	}

	if len(g.TurnTiles) > 0 {
		fmt.Fprintf(o.w, "Placed this turn: %s\n", formatPositions(g.TurnTiles))
	}

	if g.WinnerID != nil {
		fmt.Fprintf(o.w, "\nWinner: seat %d\n", *g.WinnerID)
	}
}

func (o *Output) printBoard(b *model.Board) {
	letters := b.Letters()

	// Column headers
	fmt.Fprint(o.w, "    ")
	for col := 0; col < model.BoardSize; col++ {
		fmt.Fprintf(o.w, " %d ", col)
	}
	fmt.Fprintln(o.w)

	border := "   +" + strings.Repeat("---", model.BoardSize) + "+"
	fmt.Fprintln(o.w, border)

	for row := 0; row < model.BoardSize; row++ {
		fmt.Fprintf(o.w, " %d |", row)
		for col := 0; col < model.BoardSize; col++ {
			cell := letters[row][col]
			switch cell {
			case "":
				fmt.Fprint(o.w, " . ")
			case model.BlankLetter:
				fmt.Fprint(o.w, " ? ")
			default:
				fmt.Fprintf(o.w, " %s ", cell)
			}
		}
		fmt.Fprintln(o.w, "|")
	}

	fmt.Fprintln(o.w, border)
}

func (o *Output) printClaimResult(r model.ClaimBatchResult) {
	if r.Valid {
		fmt.Fprintf(o.w, "Valid: %d points\n", r.TotalScore)
	} else {
		fmt.Fprintln(o.w, "Invalid claim")
	}
	for _, c := range r.Results {
		if c.Valid {
			line := fmt.Sprintf("  %s: %d", c.Word, c.Score)
			if len(c.Bonuses) > 0 {
				bonuses := make([]string, len(c.Bonuses))
				for i, b := range c.Bonuses {
					bonuses[i] = string(b)
				}
				line += " (" + strings.Join(bonuses, ", ") + ")"
			}
			fmt.Fprintln(o.w, line)
		} else {
			fmt.Fprintf(o.w, "  %s: %s\n", c.Word, c.Message)
		}
	}
}

func (o *Output) printBotActions(actions []bot.BotAction) {
	for _, a := range actions {
		switch {
		case len(a.Words) > 0:
			fmt.Fprintf(o.w, "Bot %d %s %s for %d\n", a.PlayerID, a.Type, strings.Join(a.Words, ", "), a.Score)
		case len(a.Positions) > 0:
			fmt.Fprintf(o.w, "Bot %d %s at %s\n", a.PlayerID, a.Type, formatPositions(a.Positions))
		default:
			fmt.Fprintf(o.w, "Bot %d %s\n", a.PlayerID, a.Type)
		}
	}
}

func (o *Output) printHealth(h response.Health) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Active rooms: %d\n", h.ActiveRooms)
	fmt.Fprintf(o.w, "Dictionary loaded: %t\n", h.Dictionary)
}

func formatRack(rack []model.Tile) string {
	parts := make([]string, len(rack))
	for i, t := range rack {
		letter := t.Letter
		if t.IsBlank() {
			letter = "?"
		}
		parts[i] = fmt.Sprintf("%d:%s", i, letter)
	}
	return strings.Join(parts, " ")
}

func formatPositions(positions []model.Position) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
