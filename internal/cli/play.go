package cli

import (
	"os"

	"github.com/spf13/cobra"

	"jleague-quiz/internal/config"
	"jleague-quiz/internal/report"
	"jleague-quiz/internal/ui/terminal"
)

// NewPlayCmd plays the quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		datasetFlag string
		localeFlag  string
		noColor     bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			if localeFlag != "" {
				cfg.Quiz.Locale = localeFlag
			}

			service, cleanup, err := buildService(cmd.Context(), cfg)
			defer cleanup()
			if err != nil {
				return err
			}

			_, err = terminal.Play(cmd.Context(), service, cmd.InOrStdin(), cmd.OutOrStdout(), terminal.Options{
				DatasetID: datasetID(datasetFlag, cfg),
				Locale:    report.ParseLocale(cfg.Quiz.Locale),
				NoColor:   noColor || !terminal.ColorEnabled(os.Stdout),
			})
			return err
		},
	}
	cmd.Flags().StringVar(&datasetFlag, "dataset", "", "dataset id to play (env: QUIZ_DATASET)")
	cmd.Flags().StringVar(&localeFlag, "locale", "", "ja or en (env: QUIZ_LOCALE)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output (env: QUIZ_NO_COLOR)")
	return cmd
}
