package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
)

// ErrNotTerminal is returned when the chat UI is started without a terminal.
var ErrNotTerminal = errors.New("chat needs an interactive terminal; use 'docchat ask' instead")

var chatCmd = &cobra.Command{
	Use:   "chat <file>",
	Short: "Chat with a file in the terminal",
	Long: `Load a file and open an interactive chat about it.

Controls:
  Enter    - Send the prompt
  Ctrl+R   - Reload the file and start a new session
  PgUp/Dn  - Scroll the conversation
  Esc      - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) (err error) {
	if !isTerminal(os.Stdout.Fd()) {
		return ErrNotTerminal
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	a, _, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	path := args[0]
	if _, err := a.Ingest(cmd.Context(), path); err != nil {
		return fmt.Errorf("load %s: %w", path, userError(err))
	}

	ui, err := tui.NewApp(&tui.Ports{
		Chat:      a.Chat,
		Documents: a.Documents,
		Loader:    a,
		Path:      path,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := ui.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
