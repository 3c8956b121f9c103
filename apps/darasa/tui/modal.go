package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/darasa/core/confirm"
	notifysvc "github.com/trezcool/darasa/services/notify"
)

func renderModal(prompt *confirm.Prompt, focus modalFocus, width int) string {
	req := prompt.Request()

	var b strings.Builder
	b.WriteString(labelStyle.Render(req.Title))
	b.WriteString("\n\n")
	b.WriteString(req.Message)
	if req.AdditionalInfo != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(req.AdditionalInfo))
	}

	if req.RequireAcknowledgment {
		box := "[ ]"
		if prompt.Acknowledged() {
			box = "[x]"
		}
		b.WriteString("\n\n")
		b.WriteString(box + " " + req.AcknowledgmentText)
	}

	confirmBtn := buttonStyle.Render(req.ConfirmText)
	if !prompt.CanConfirm() {
		confirmBtn = disabledButtonStyle.Render(req.ConfirmText)
	} else if focus == modalFocusConfirm {
		confirmBtn = activeButtonStyle.Render(req.ConfirmText)
	}
	cancelBtn := buttonStyle.Render(req.CancelText)
	if focus == modalFocusCancel {
		cancelBtn = activeButtonStyle.Render(req.CancelText)
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, confirmBtn, " ", cancelBtn))

	help := "tab: focus   enter: select   esc: cancel"
	if req.RequireAcknowledgment {
		help = "space: acknowledge   " + help
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(help))

	style := modalStyle
	if req.Destructive {
		style = destructiveModalStyle
	}
	return style.MaxWidth(width).Render(b.String())
}

func renderNotices(notices []notifysvc.Notification, width int) string {
	if len(notices) == 0 {
		return ""
	}
	lines := make([]string, 0, len(notices))
	for _, n := range notices {
		style := mutedStyle
		switch n.Level {
		case notifysvc.LevelError:
			style = errorStyle
		case notifysvc.LevelWarning:
			style = warningStyle
		case notifysvc.LevelSuccess:
			style = successStyle
		}
		lines = append(lines, style.MaxWidth(width).Render("• "+n.Message))
	}
	return strings.Join(lines, "\n")
}
