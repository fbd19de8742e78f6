package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/whispee/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// chatHistory is how many messages the chat page shows.
const chatHistory = 15

func newComposeForm() *form {
	return newForm(field{label: "Message", placeholder: "write something", limit: models.MaxMessageLength})
}

// writeChatList renders the chat list of the home page.
func (m Model) writeChatList(b *strings.Builder) {
	b.WriteString("\nChats\n")
	switch {
	case m.chatsErr != "":
		b.WriteString(errorStyle.Render("Error: " + m.chatsErr))
		b.WriteString("\n")
	case m.chats == nil:
		b.WriteString(LoadingLabel(models.OperationLoadChats))
		b.WriteString("\n")
	case len(m.chats) == 0:
		b.WriteString("no chats yet\n")
	}

	for i, chat := range m.chats {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		fmt.Fprintf(b, "%s%s\n", cursor, chat.Title)
	}
}

func (m Model) viewChat() string {
	var b strings.Builder

	title := "CHAT"
	if m.opened != nil {
		title = "CHAT │ " + m.opened.Chat.Title

		messages := m.opened.Messages
		if len(messages) > chatHistory {
			messages = messages[len(messages)-chatHistory:]
		}
		if len(messages) == 0 {
			b.WriteString("no messages yet\n")
		}
		for _, msg := range messages {
			fmt.Fprintf(&b, "%s %s: %s\n", msg.CreatedAt.Local().Format("15:04"), msg.Username, msg.Content)
		}
	}

	b.WriteString("\n")
	b.WriteString(m.compose.view())
	b.WriteString("\n")
	if m.chatBusy {
		b.WriteString(LoadingLabel(models.OperationSendMessage))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage(title, strings.TrimRight(b.String(), "\n"), "enter: send │ ctrl+d: delete my last message │ esc: back")
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.page = pageHome
		m.opened = nil
		m.errMsg = ""
		m.compose.reset()
		return m, nil
	case m.chatBusy:
		return m, nil
	case key.Matches(msg, keys.enter):
		content := m.compose.value(0)
		if content == "" || m.opened == nil {
			return m, nil
		}
		m.errMsg = ""
		m.chatBusy = true
		return m, m.send(models.OutgoingMessage{ChatID: m.opened.Chat.ChatID, Content: content})
	case key.Matches(msg, keys.delete):
		id, ok := m.lastOwnMessage()
		if !ok {
			m.errMsg = "You have no message here to delete"
			return m, nil
		}
		m.errMsg = ""
		m.chatBusy = true
		return m, m.deleteMessage(id)
	}

	return m, m.compose.update(msg)
}

func (m Model) handleChatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.tab):
		if len(m.chats) > 0 {
			m.selected = (m.selected + 1) % len(m.chats)
		}
	case key.Matches(msg, keys.backtab):
		if len(m.chats) > 0 {
			m.selected = (m.selected - 1 + len(m.chats)) % len(m.chats)
		}
	case key.Matches(msg, keys.reload):
		m.chats, m.chatsErr = nil, ""
		return m, m.loadChats()
	case key.Matches(msg, keys.enter):
		if m.selected >= len(m.chats) {
			return m, nil
		}
		m.errMsg = ""
		m.chatBusy = true
		return m, m.openChat(m.chats[m.selected].ChatID)
	}
	return m, nil
}

func (m Model) lastOwnMessage() (int64, bool) {
	if m.opened == nil || m.view.User == nil {
		return 0, false
	}
	for i := len(m.opened.Messages) - 1; i >= 0; i-- {
		if msg := m.opened.Messages[i]; msg.UserID == m.view.User.UserID {
			return msg.MessageID, true
		}
	}
	return 0, false
}

// chatChanged applies a pushed change to the chat on screen.
func (m Model) chatChanged(msg ChatEventMsg) (tea.Model, tea.Cmd) {
	listen := m.notifier.ListenChat(m.ctx)
	if m.page != pageChat || m.opened == nil || m.opened.Chat.ChatID != msg.Event.ChatID {
		return m, listen
	}

	opened := *m.opened
	switch msg.Event.Kind {
	case models.ChatMessageSent:
		if msg.Event.Message != nil {
			opened.Messages = appendMessage(opened.Messages, *msg.Event.Message)
		}
	case models.ChatMessageDeleted:
		opened.Messages = removeMessage(opened.Messages, msg.Event.MessageID)
	}
	m.opened = &opened

	return m, listen
}

func appendMessage(messages []models.Message, msg models.Message) []models.Message {
	if slices.ContainsFunc(messages, func(x models.Message) bool { return x.MessageID == msg.MessageID }) {
		return messages
	}
	return append(slices.Clip(messages), msg)
}

func removeMessage(messages []models.Message, id int64) []models.Message {
	return slices.DeleteFunc(slices.Clone(messages), func(x models.Message) bool { return x.MessageID == id })
}

func (m Model) loadChats() tea.Cmd {
	if m.chat == nil {
		return nil
	}
	ctx, chat := m.ctx, m.chat

	return func() tea.Msg {
		chats, err := chat.LoadChats(ctx)
		return chatsLoadedMsg{chats: chats, err: err}
	}
}

func (m Model) openChat(chatID int64) tea.Cmd {
	ctx, chat := m.ctx, m.chat

	return func() tea.Msg {
		opened, err := chat.OpenChat(ctx, chatID)
		return chatOpenedMsg{opened: opened, err: err}
	}
}

func (m Model) send(msg models.OutgoingMessage) tea.Cmd {
	ctx, chat := m.ctx, m.chat

	return func() tea.Msg {
		stored, err := chat.Send(ctx, msg)
		return messageSentMsg{message: stored, err: err}
	}
}

func (m Model) deleteMessage(id int64) tea.Cmd {
	ctx, chat := m.ctx, m.chat

	return func() tea.Msg {
		return messageDeletedMsg{messageID: id, err: chat.Delete(ctx, id)}
	}
}
