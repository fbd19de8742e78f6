package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/whispee/internal/adapter"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/service"
	"github.com/MKhiriev/whispee/models"
	tea "github.com/charmbracelet/bubbletea"
)

type TUI struct {
	auth     service.ClientAuthService
	chat     service.ClientChatService
	notifier *Adapter
	info     adapter.ServerInfoAdapter
	build    models.AppBuildInfo
	logger   *logger.Logger
}

// New builds the terminal UI. notifier must be the notifier and chat
// listener the session was created with.
func New(services *service.ClientServices, notifier *Adapter, info adapter.ServerInfoAdapter, build models.AppBuildInfo, log *logger.Logger) *TUI {
	return &TUI{
		auth:     services.AuthService,
		chat:     services.ChatService,
		notifier: notifier,
		info:     info,
		build:    build,
		logger:   log,
	}
}

// Run shows the UI until the user quits or ctx ends. Both are a normal exit.
func (t *TUI) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newModel(ctx, t.auth, t.chat, t.notifier, t.info, t.build, t.logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("run terminal ui: %w", err)
	}

	t.logger.Info().Msg("terminal ui closed")
	return nil
}
