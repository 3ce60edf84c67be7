package cli

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spendinglol/spending/pkg/budget"
	"github.com/spendinglol/spending/pkg/format"
	"github.com/spendinglol/spending/pkg/pipeline"
)

const barWidth = 40

// budgetCommand prints the revenue / outlays / obligations headline.
func (c *CLI) budgetCommand() *cobra.Command {
	var (
		amount      string
		personalize bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show revenue, outlays and obligations, optionally scaled to you",
		Long: `Show the fiscal year headline: revenue, outlays and obligated amount.

With --amount the figures are rescaled so that revenue equals your
contribution, keeping the ratios between them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := c.Config.Contribution
			if cmd.Flags().Changed("personalize") {
				st.Enabled = personalize
			}
			if amount != "" {
				v, err := format.ParseAmount(amount)
				if err != nil {
					return err
				}
				st.Amount = v
				if !cmd.Flags().Changed("personalize") {
					st.Enabled = true
				}
			}

			stack := budget.NewStack(budget.FY2024, st.Amount, st.Enabled)
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(stack)
			}
			printBudget(stack, st.Enabled, pipeline.DefaultFiscalYear)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", `personal contribution, e.g. "$40,000"`)
	cmd.Flags().BoolVar(&personalize, "personalize", false, "scale figures to your contribution")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func printBudget(s budget.Stack, personal bool, year int) {
	title := fmt.Sprintf("Fiscal year %d", year)
	if personal {
		title = fmt.Sprintf("Your share of fiscal year %d", year)
	}
	printTitle(title)
	printNewline()

	printBar("Revenue", s.Revenue, s.RevenueWidth, colorMoney)
	printBar("Outlays", s.Outlays, s.OutlaysWidth, colorSpend)
	printBar("Obligated", s.ObligatedAmount, 100, colorDebt)
	printNewline()

	r := budget.CalculateRatios(s.Figure)
	printField("Deficit", format.Dollars(s.Deficit))
	printField("Unspent", format.Dollars(s.RemainingObligated))
	printDetail("for every $1 of revenue: $%.2f spent, $%.2f obligated", r.OutlaysRatio, r.ObligatedRatio)
}

// printBar draws a labeled bar filled to width percent.
func printBar(label string, amount, width float64, color lipgloss.Color) {
	pct := width / 100
	if math.IsNaN(pct) {
		pct = 0
	}
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(colorMuted)
	printLine(styleLabel.Render(label), bar.ViewAs(max(0, min(1, pct))), StyleValue.Render(format.Dollars(amount)))
}
