package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var (
	askModel string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask <file> [prompt]",
	Short: "Ask one question about a file",
	Long: `Load a file, ask a single question and print the answer.

When the prompt is omitted and stdin is not a terminal, the prompt is read
from stdin.

Examples:
  docchat ask report.pdf "Summarise the findings"
  echo "List the authors" | docchat ask report.pdf`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askModel, "model", "", "completion model override")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// askResult is the JSON form of an answer.
type askResult struct {
	File      string        `json:"file"`
	SessionID string        `json:"session_id"`
	Response  string        `json:"response"`
	Model     string        `json:"model"`
	Usage     *domain.Usage `json:"usage"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(cmd, args)
	if err != nil {
		return err
	}

	a, _, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	path := args[0]
	if _, err := a.Ingest(cmd.Context(), path); err != nil {
		return fmt.Errorf("load %s: %w", path, userError(err))
	}

	answer, err := a.Chat.Ask(cmd.Context(), domain.AskRequest{Prompt: prompt, Model: askModel})
	if err != nil {
		return userError(err)
	}

	if askJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(askResult{
			File:      path,
			SessionID: answer.SessionID,
			Response:  answer.Response,
			Model:     answer.Model,
			Usage:     answer.Usage,
		})
	}

	cmd.Println(answer.Response)
	return nil
}

// readPrompt takes the prompt from args, or from piped stdin.
func readPrompt(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isTerminal(f.Fd()) {
		return "", errors.New("prompt required: pass it as an argument or pipe it on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", errors.New("prompt required: pass it as an argument or pipe it on stdin")
	}
	return prompt, nil
}
