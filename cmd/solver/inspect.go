package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/lox/dcfr-holdem/sdk/solver"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	probStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

type InspectCmd struct {
	Blueprint string `short:"b" help:"path to blueprint file" required:"" env:"DCFR_BLUEPRINT"`
	Prefix    string `short:"p" help:"only show information sets whose key starts with this prefix"`
	Street    string `help:"only show one street" enum:"preflop,flop,turn,river,all" default:"all"`
	Limit     int    `short:"l" help:"maximum rows to print (0 prints all)" default:"25"`
}

func (cmd *InspectCmd) Run(ctx context.Context) error {
	bp, err := solver.LoadBlueprint(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}

	keys := make([]string, 0, len(bp.Strategies))
	for key := range bp.Strategies {
		if !strings.HasPrefix(key, cmd.Prefix) {
			continue
		}
		if cmd.Street != "all" {
			k, err := solver.ParseInfoSetKey(key)
			if err != nil || k.Street.String() != cmd.Street {
				continue
			}
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	matched := len(keys)
	if cmd.Limit > 0 && len(keys) > cmd.Limit {
		keys = keys[:cmd.Limit]
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("run %s: %s iterations, %s information sets, %d players, blinds %d/%d",
		bp.RunID,
		humanize.Comma(int64(bp.Iterations)),
		humanize.Comma(int64(len(bp.Strategies))),
		bp.Training.Players,
		bp.Training.SmallBlind, bp.Training.BigBlind,
	)))

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, strategyRow(key, bp.Strategies[key]))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("street", "seat", "hole", "board", "history", "strategy").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 4:
				return keyStyle.Padding(0, 1)
			case col == 5:
				return probStyle.Padding(0, 1)
			default:
				return cellStyle
			}
		})
	fmt.Println(t)
	fmt.Printf("showing %d of %d matching information sets\n", len(keys), matched)
	return nil
}

func strategyRow(key string, row []solver.ActionProb) []string {
	probs := make([]string, len(row))
	for i, ap := range row {
		probs[i] = fmt.Sprintf("%s %.1f%%", ap.Action, ap.Probability*100)
	}
	strategy := strings.Join(probs, "  ")

	k, err := solver.ParseInfoSetKey(key)
	if err != nil {
		return []string{"?", "?", "?", "?", key, strategy}
	}
	history := k.History
	if history == "" {
		history = "-"
	}
	return []string{
		k.Street.String(),
		fmt.Sprint(k.Player),
		fmt.Sprint(k.HoleBucket),
		fmt.Sprint(k.BoardBucket),
		history,
		strategy,
	}
}
