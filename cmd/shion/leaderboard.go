package main

import (
	"fmt"
	"io"
	"strconv"

	"shion/internal/domain"
	"shion/internal/service"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var (
	leaderboardPage  int
	leaderboardLimit int
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the rating leaderboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var players *service.PlayerService
		closeDB, err := populate(cmd.Context(), &players)
		if err != nil {
			return err
		}
		defer closeDB()

		board, err := players.GetLeaderboard(cmd.Context(), leaderboardPage, leaderboardLimit)
		if err != nil {
			return fmt.Errorf("leaderboard: %w", err)
		}
		if len(board) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No players on this page.")
			return nil
		}
		_, offset := service.Paginate(leaderboardPage, leaderboardLimit)
		printLeaderboard(cmd.OutOrStdout(), board, offset)
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntVar(&leaderboardPage, "page", 1, "page number, starting at 1")
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "players per page")
}

func printLeaderboard(w io.Writer, players []domain.Player, offset int) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	table.Header("#", "STEAM ID", "NAME", "CC", "RATING", "SIGMA", "W", "L", "K/D")
	for i, p := range players {
		kd := float64(p.Stats.TotalFrags)
		if p.Stats.TotalDeaths > 0 {
			kd /= float64(p.Stats.TotalDeaths)
		}
		table.Append(
			strconv.Itoa(offset+i+1),
			p.SteamID,
			p.SteamName,
			p.Country,
			fmt.Sprintf("%.1f", p.Stats.Rating),
			fmt.Sprintf("%.1f", p.Stats.Uncertainty),
			strconv.FormatInt(p.Stats.Wins, 10),
			strconv.FormatInt(p.Stats.Losses, 10),
			fmt.Sprintf("%.2f", kd),
		)
	}
	table.Render()
}
