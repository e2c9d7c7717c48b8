package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/flashgen-api/errs"
)

func newGenerateCommand(flags *Flags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Generate ten flashcards and print them as JSON",
		Long: `Generate ten flashcards from text given as an argument, read from --file,
or read from standard input when neither is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			gen, err := newGenerator(cmd.Context(), cfg.Generator)
			if err != nil {
				return err
			}

			cards, err := gen.Generate(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("%s: %w", errs.Message(err), err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cards)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read text from this file")
	return cmd
}

func readInput(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case len(args) > 0 && file != "":
		return "", errors.New("give the text as an argument or with --file, not both")
	case len(args) > 0:
		return args[0], nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
}
