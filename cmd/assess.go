package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aiq-cli/internal/report"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score current displacement risk and price the premium",
	Long: `Computes the experience, human capital, company risk and upskilling factors,
the idiosyncratic and systematic risk scores, the claim probability chain and
the monthly premium for the current job.

Examples:
  # Defaults: Software Developer, 10 years, Bachelor's in STEM
  assess

  # Data entry clerk in a hot AI market
  assess --occupation "Data Entry Clerk" --ai-innovation 1.2

  # JSON for downstream tooling
  assess --format json`,
	RunE: runAssess,
}

func init() {
	addProfileFlags(assessCmd)
	addMarketPolicyFlags(assessCmd)
	addOutputFlags(assessCmd)

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	log := zap.L().With(zap.String("command", "assess"))

	in, err := readInputs(cmd)
	if err != nil {
		return err
	}

	a, err := in.calc.Assess(in.profile, in.market, in.policy)
	if err != nil {
		return eris.Wrap(err, "assess")
	}

	log.Info("assessment complete",
		zap.String("occupation", in.profile.Occupation),
		zap.Float64("idiosyncratic_risk", a.IdiosyncraticRisk),
		zap.Float64("systematic_risk", a.SystematicRisk),
		zap.Float64("monthly_premium", a.MonthlyPremium),
	)

	return emit(cmd, report.Workbook{Assessment: a}, func(w *report.Writer) error {
		return w.Assessment(a)
	})
}
