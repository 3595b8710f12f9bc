package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

var numbers = message.NewPrinter(language.English)

// money formats v with thousands separators and two decimals.
func money(v float64) string {
	return numbers.Sprintf("%.2f", v)
}

func qty(v float64) string {
	return numbers.Sprintf("%.0f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func amountRows(in []domain.Amount, format func(float64) string) [][]string {
	rows := make([][]string, len(in))
	for i, a := range in {
		rows[i] = []string{a.Label, format(a.Value)}
	}
	return rows
}

func countRows(in []domain.Count) [][]string {
	rows := make([][]string, len(in))
	for i, c := range in {
		rows[i] = []string{c.Label, strconv.Itoa(c.Count)}
	}
	return rows
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
