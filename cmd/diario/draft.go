package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/diario/internal/adapters/api"
	"github.com/PabloGalante/diario/internal/adapters/assistant"
	"github.com/PabloGalante/diario/internal/app/attach"
	"github.com/PabloGalante/diario/internal/app/drafting"
	"github.com/PabloGalante/diario/internal/app/session"
	"github.com/PabloGalante/diario/internal/config"
	"github.com/PabloGalante/diario/internal/domain"
	"github.com/PabloGalante/diario/internal/observability"
	"github.com/PabloGalante/diario/internal/tui"
)

func newDraftCmd() *cobra.Command {
	var (
		outPath     string
		attachPaths []string
	)

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Draft a journal entry by chatting with the AI assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDraft(outPath, attachPaths)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the finished draft as JSON to this file")
	cmd.Flags().StringSliceVar(&attachPaths, "attach", nil, "image files to attach before the conversation starts")

	return cmd
}

func runDraft(outPath string, attachPaths []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := observability.Init(cfg.LogFile); err != nil {
		return err
	}

	// Pick real backend or the scripted offline assistant (useful for dev).
	var (
		asst domain.Assistant
		up   domain.Uploader
	)
	if cfg.UseMockAssistant {
		observability.Logger().Info("using mock assistant")
		asst = assistant.NewMock()
		up = assistant.NewMemoryUploader()
	} else {
		client := api.NewClient(cfg.BaseURL, cfg.Token)
		asst = client
		up = client
	}

	ctrl := drafting.NewController(
		session.New(),
		asst,
		attach.NewManager(up, cfg.MaxUploadMB),
	)

	if len(attachPaths) > 0 {
		ctrl.Attachments().AddFiles(context.Background(), tui.LoadFiles(attachPaths)...)
		if msg := ctrl.Attachments().Err(); msg != "" {
			fmt.Fprintln(os.Stderr, color.RedString("attach: %s", msg))
		}
	}

	program := tea.NewProgram(tui.New(ctrl), tea.WithAltScreen())
	ctrl.SetOnTurnAppended(func() {
		program.Send(tui.TurnAppendedMsg{})
	})
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running drafting UI: %w", err)
	}

	model, ok := final.(tui.Model)
	if !ok {
		return fmt.Errorf("unexpected final model %T", final)
	}

	if model.Canceled() {
		fmt.Println("Draft canceled.")
		return nil
	}

	draft, ok := model.Draft()
	if !ok {
		return nil
	}

	if outPath != "" {
		return writeDraft(outPath, draft)
	}

	renderDraft(draft)
	return nil
}

func writeDraft(path string, draft domain.Draft) error {
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	fmt.Printf("Draft written to %s\n", path)
	return nil
}

func renderDraft(draft domain.Draft) {
	color.New(color.FgGreen, color.Bold).Println(draft.Title)
	fmt.Println()
	fmt.Println(draft.Content)
	if len(draft.ImageURLs) > 0 {
		fmt.Println()
		color.New(color.FgCyan).Println("Images:")
		for _, u := range draft.ImageURLs {
			fmt.Println("  " + u)
		}
	}
}
