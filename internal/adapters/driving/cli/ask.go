package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragchat/internal/core/domain"
)

var (
	askFiles  []string
	askFormat string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from documents",
	Long: `Uploads the given files and answers one question from them.

The answer is followed by the chunks it was grounded on. With --format json
or yaml the result is printed as {query, answer, sources}, and failures as
{error}.

Examples:
  ragchat ask -f report.pdf "What was revenue in Q3?"
  ragchat ask -f a.md -f b.docx --format json "Summarise the plan"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVarP(&askFiles, "file", "f", nil, "files to upload before asking")
	askCmd.Flags().StringVar(&askFormat, "format", string(formatText), "output format: text, json or yaml")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(askFormat)
	if err != nil {
		return err
	}

	svc, err := chat()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if len(askFiles) > 0 {
		if _, err := svc.Upload(ctx, askFiles); err != nil {
			return renderAskError(cmd, format, err)
		}
	}

	answer, err := svc.Query(ctx, strings.Join(args, " "))
	if err != nil {
		return renderAskError(cmd, format, err)
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, answer)
	}
	cmd.Println(formatAnswer(cmd, answer))
	return nil
}

// renderAskError prints structured failures as {error} and returns text-mode
// failures to cobra, adding a hint for the not-ready case.
func renderAskError(cmd *cobra.Command, format outputFormat, err error) error {
	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, errorOutput{Error: err.Error()})
	}
	if errors.Is(err, domain.ErrNotReady) {
		return fmt.Errorf("%w: pass files with -f", err)
	}
	return err
}

func formatAnswer(cmd *cobra.Command, answer domain.Answer) string {
	if isTerminal(cmd.OutOrStdout()) {
		return tui.RenderAnswer(styles.DefaultStyles(), answer)
	}

	var b strings.Builder
	b.WriteString(answer.Answer)
	if len(answer.Sources) > 0 {
		b.WriteString("\n\nSources:")
		for i, src := range answer.Sources {
			fmt.Fprintf(&b, "\n%d. %s\n   %s", i+1, src.Source, src.Preview(tui.PreviewLength))
		}
	}
	return b.String()
}
