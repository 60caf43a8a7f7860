package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comigor/portfolio-chat/internal/logger"
	"github.com/comigor/portfolio-chat/internal/remote"
	"github.com/comigor/portfolio-chat/internal/widget"
)

var (
	logFile string
	width   int
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat widget in the terminal",
	Long: `Opens the chat widget. Type a message and press enter.

  /1../4   send one of the suggestions
  /css     print the active style overrides
  /quit    leave`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)

		w := widget.New(remote.NewClient(cfg.Widget), cfg.Portfolio.Owner)
		return runChat(cmd.Context(), w, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().StringVar(&logFile, "log-file", "portfolio-chat.log", "file receiving logs while the widget owns the terminal")
	chatCmd.Flags().IntVar(&width, "width", 80, "render width in columns")
}

func runChat(ctx context.Context, w *widget.Controller, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, w.View(width))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "/quit", "/exit":
			return nil
		case "/css":
			if css := w.Sheet().Stylesheet(); css != "" {
				fmt.Fprintln(out, css)
			} else {
				fmt.Fprintln(out, "(original styles)")
			}
			continue
		}

		if _, err := w.Send(ctx, line); err != nil {
			if errors.Is(err, widget.ErrNoSuggestion) {
				fmt.Fprintln(out, err)
				continue
			}
			return err
		}
		fmt.Fprintln(out, w.View(width))
	}
}
