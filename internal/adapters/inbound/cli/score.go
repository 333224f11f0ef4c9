package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/testology/psyengine/internal/adapters/outbound/answers"
	"github.com/testology/psyengine/internal/adapters/outbound/tui"
	"github.com/testology/psyengine/internal/application"
)

func newScoreCmd(opts *globalOptions) *cobra.Command {
	var (
		jsonOutput    bool
		debug         bool
		save          bool
		userID        string
		questionsFile string
	)

	cmd := &cobra.Command{
		Use:   "score <test> [answers.json]",
		Short: "Score one set of answers",
		Long:  "Score answers for a test. Answers are read from the file argument, or from stdin when it is omitted or '-'.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) > 1 {
				src = args[1]
			}
			doc, err := readAnswers(cmd, src)
			if err != nil {
				return err
			}
			if questionsFile != "" {
				questions, err := readQuestions(questionsFile)
				if err != nil {
					return err
				}
				doc.Questions = questions
			}

			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if save {
				if err := a.openHistory(); err != nil {
					return err
				}
			}

			sub, err := a.scoreService().Submit(cmd.Context(), application.SubmitRequest{
				UserID:       userID,
				Test:         args[0],
				Answers:      doc.Answers,
				QuestionText: doc.Questions,
				Debug:        debug,
				Save:         save,
			})
			if err != nil {
				return fmt.Errorf("scoring failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, sub)
			}

			cfg, err := a.registry.Get(sub.Result.TestID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, tui.RenderResult(sub.Result, cfg))
			if sub.Debug != nil {
				fmt.Fprint(out, tui.RenderDebug(sub.Debug))
			}
			if sub.Record != nil {
				fmt.Fprintf(out, "  saved as %s\n", sub.Record.ID)
			} else if save {
				fmt.Fprintln(out, "  result was not saved; see the log for details")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include a per-item scoring trace")
	cmd.Flags().BoolVar(&save, "save", false, "Append the result to the user's history")
	cmd.Flags().StringVar(&userID, "user", "", "User the result belongs to (required with --save)")
	cmd.Flags().StringVar(&questionsFile, "questions", "", "JSON file mapping question ids to texts for --debug")

	return cmd
}

func readAnswers(cmd *cobra.Command, src string) (*answers.Document, error) {
	var r io.Reader = cmd.InOrStdin()
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("opening answers: %w", err)
		}
		defer f.Close()
		r = f
	}
	return answers.Read(r)
}

func readQuestions(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening questions: %w", err)
	}
	defer f.Close()
	return answers.ReadQuestions(f)
}
