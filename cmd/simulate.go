package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aiq-cli/internal/config"
	"github.com/sells-group/aiq-cli/internal/report"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Compare current risk with a simulated career transition",
	Long: `Simulates a move to a target occupation with updated skill progress and
reports current, simulated and delta scores. The systematic score blends the
current and target hazards over the time-to-value period.

Examples:
  # Halfway through a 12-month move to Data Scientist
  simulate --target "Data Scientist" --months 6

  # Raise general skills and include both series
  simulate --sim-general-skill 0.9 --trend --skills

  # Everything into one workbook
  simulate --trend --skills --output simulation.xlsx`,
	RunE: runSimulate,
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Month-by-month systematic risk and premium over the transition",
	RunE:  runTrend,
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Idiosyncratic risk and premium across general skill progress",
	RunE:  runSkills,
}

func init() {
	for _, c := range []*cobra.Command{simulateCmd, trendCmd, skillsCmd} {
		addProfileFlags(c)
		addScenarioFlags(c)
		addMarketPolicyFlags(c)
		addOutputFlags(c)
		rootCmd.AddCommand(c)
	}

	simulateCmd.Flags().Bool("trend", false, "include the transition trend series")
	simulateCmd.Flags().Bool("skills", false, "include the skill sensitivity series")
	simulateCmd.Flags().Float64("step", 0, "skill sweep step in (0,1] (overrides config)")
	skillsCmd.Flags().Float64("step", 0, "skill sweep step in (0,1] (overrides config)")
}

func skillStep(cmd *cobra.Command) (float64, error) {
	step := cfg.Simulation.SkillStep
	if cmd.Flags().Changed("step") {
		step, _ = cmd.Flags().GetFloat64("step")
	}
	if !(step >= config.MinSkillStep && step <= 1) {
		return 0, eris.Errorf("--step must be in [%v, 1] (got %v)", config.MinSkillStep, step)
	}
	return step, nil
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	log := zap.L().With(zap.String("command", "simulate"))

	in, err := readInputs(cmd)
	if err != nil {
		return err
	}
	s, err := readScenario(cmd, in)
	if err != nil {
		return err
	}

	cmp, err := in.calc.Compare(in.profile, s, in.market, in.policy)
	if err != nil {
		return eris.Wrap(err, "simulate")
	}
	wb := report.Workbook{Comparison: cmp}

	if withTrend, _ := cmd.Flags().GetBool("trend"); withTrend {
		if wb.Transition, err = in.calc.TransitionTrend(in.profile, s, in.market, in.policy); err != nil {
			return eris.Wrap(err, "simulate: trend")
		}
	}
	if withSkills, _ := cmd.Flags().GetBool("skills"); withSkills {
		step, err := skillStep(cmd)
		if err != nil {
			return err
		}
		if wb.Skills, err = in.calc.SkillSensitivity(in.profile, s, in.market, in.policy, step); err != nil {
			return eris.Wrap(err, "simulate: skills")
		}
	}

	d := cmp.Delta()
	log.Info("simulation complete",
		zap.String("from", in.profile.Occupation),
		zap.String("to", s.TargetOccupation),
		zap.Int("months_elapsed", s.MonthsElapsed),
		zap.Float64("delta_idiosyncratic_risk", d.IdiosyncraticRisk),
		zap.Float64("delta_systematic_risk", d.SystematicRisk),
		zap.Float64("delta_monthly_premium", d.MonthlyPremium),
	)

	return emit(cmd, wb, func(w *report.Writer) error {
		if err := w.Comparison(cmp); err != nil {
			return err
		}
		if len(wb.Transition) > 0 {
			if err := separate(w); err != nil {
				return err
			}
			if err := w.Transition(wb.Transition); err != nil {
				return err
			}
		}
		if len(wb.Skills) > 0 {
			if err := separate(w); err != nil {
				return err
			}
			if err := w.Skills(wb.Skills); err != nil {
				return err
			}
		}
		return nil
	})
}

// separate puts a blank line between table sections. CSV and JSON sections
// are written back to back.
func separate(w *report.Writer) error {
	if w.Format() != report.FormatTable {
		return nil
	}
	return w.Blank()
}

func runTrend(cmd *cobra.Command, _ []string) error {
	in, err := readInputs(cmd)
	if err != nil {
		return err
	}
	s, err := readScenario(cmd, in)
	if err != nil {
		return err
	}

	points, err := in.calc.TransitionTrend(in.profile, s, in.market, in.policy)
	if err != nil {
		return eris.Wrap(err, "trend")
	}

	zap.L().Info("transition trend complete",
		zap.String("from", in.profile.Occupation),
		zap.String("to", s.TargetOccupation),
		zap.Int("points", len(points)),
	)

	return emit(cmd, report.Workbook{Transition: points}, func(w *report.Writer) error {
		return w.Transition(points)
	})
}

func runSkills(cmd *cobra.Command, _ []string) error {
	in, err := readInputs(cmd)
	if err != nil {
		return err
	}
	s, err := readScenario(cmd, in)
	if err != nil {
		return err
	}
	step, err := skillStep(cmd)
	if err != nil {
		return err
	}

	points, err := in.calc.SkillSensitivity(in.profile, s, in.market, in.policy, step)
	if err != nil {
		return eris.Wrap(err, "skills")
	}

	zap.L().Info("skill sensitivity complete",
		zap.String("target", s.TargetOccupation),
		zap.Float64("step", step),
		zap.Int("points", len(points)),
	)

	return emit(cmd, report.Workbook{Skills: points}, func(w *report.Writer) error {
		return w.Skills(points)
	})
}
