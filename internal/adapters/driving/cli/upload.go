package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

var uploadFormat string

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Parse, chunk and index files",
	Long: `Parses, chunks and indexes files, then reports what was indexed.

Supported formats: .pdf .docx .pptx .csv .txt .md. An unsupported or
unreadable file fails the whole batch and nothing is indexed.

The index is held in memory, so this command is mainly useful to check that
files parse. Use 'ragchat ask -f' or 'ragchat chat' to ask questions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadFormat, "format", string(formatText), "output format: text, json or yaml")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(uploadFormat)
	if err != nil {
		return err
	}

	svc, err := chat()
	if err != nil {
		return err
	}

	report, err := svc.Upload(cmd.Context(), args)
	if format != formatText {
		if err != nil {
			report = domain.UploadFailed(err)
		}
		return writeStructured(cmd.OutOrStdout(), format, report)
	}
	if err != nil {
		return err
	}

	cmd.Printf("Indexed %d chunks from %d files (%d documents in store)\n",
		report.Chunks, report.Files, report.Documents)
	return nil
}
