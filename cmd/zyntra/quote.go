package main

import (
	"fmt"
	"zyntra/internal/calc"

	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Offline calculators without starting the simulation",
	}
	cmd.AddCommand(newStakeQuoteCmd(), newLiqQuoteCmd())
	return cmd
}

func newStakeQuoteCmd() *cobra.Command {
	var (
		req       calc.StakeRequest
		withCurve bool
	)
	cmd := &cobra.Command{
		Use:   "stake",
		Short: "Project staking returns (simple interest)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := calc.Project(req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "principal:     %.2f\n", p.Principal)
			fmt.Fprintf(out, "effective apy: %.4f%%\n", p.EffectiveAPY)
			fmt.Fprintf(out, "yearly:        %.2f\n", p.Yearly)
			fmt.Fprintf(out, "monthly:       %.2f\n", p.Monthly)
			fmt.Fprintf(out, "daily:         %.4f\n", p.Daily)
			fmt.Fprintf(out, "term (%3dd):   %.2f\n", p.TermDays, p.TermReturn)
			if withCurve {
				for _, pt := range calc.GrowthCurve(p.Principal, p.EffectiveAPY, req.DurationDays) {
					fmt.Fprintf(out, "day %4d  %.2f  (+%.2f)\n", pt.Day, pt.Value, pt.Profit)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&req.Principal, "principal", 1000, "amount to stake")
	f.Float64Var(&req.APY, "apy", 12, "annual percentage yield, %")
	f.IntVar(&req.DurationDays, "days", 365, "lock period in days, 0 for flexible")
	f.Float64Var(&req.MinStake, "min", 0, "plan minimum stake")
	f.BoolVar(&req.Compound, "compound", false, "apply the compound bonus")
	f.Float64Var(&req.CompoundBonusPct, "bonus", calc.DefaultCompoundBonusPct, "compound bonus, % of apy")
	f.BoolVar(&withCurve, "curve", false, "print the growth curve")
	return cmd
}

func newLiqQuoteCmd() *cobra.Command {
	var (
		entry, margin float64
		leverage      int
	)
	cmd := &cobra.Command{
		Use:   "liq",
		Short: "Estimate the long-side liquidation price for a leverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := calc.QuoteLeverage(entry, margin, leverage)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "entry:       %.2f\n", q.EntryPrice)
			fmt.Fprintf(out, "leverage:    %dx (%s)\n", q.Leverage, q.Risk)
			fmt.Fprintf(out, "liquidation: %.2f\n", q.LiquidationPrice)
			if margin > 0 {
				fmt.Fprintf(out, "notional:    %.2f\n", q.Notional)
				fmt.Fprintf(out, "max size:    %.6f\n", q.PositionSize)
				fmt.Fprintf(out, "fee:         %.4f\n", q.Fee)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&entry, "entry", 0, "entry price")
	f.Float64Var(&margin, "margin", 0, "collateral, optional")
	f.IntVar(&leverage, "leverage", 10, "leverage")
	_ = cmd.MarkFlagRequired("entry")
	return cmd
}
