package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bledchat/server/internal/cipher"
	"github.com/bledchat/server/internal/domain"
)

// undecryptableMarker replaces a blob that no fallback text can explain.
// Raw ciphertext is never shown.
const undecryptableMarker = "[unable to decrypt]"

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	senderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true)
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	systemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Italic(true)
	fileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
)

// Renderer turns cached entries into styled terminal lines. Decryption
// happens here, on read: the cache keeps records exactly as stored and the
// renderer derives a display view per call.
type Renderer struct {
	// KeyMaterial is the viewer's password; records encrypted under another
	// user's key render as their fallback text or the undecryptable marker.
	KeyMaterial string

	titler cases.Caser
}

// NewRenderer builds a renderer for the given key material.
func NewRenderer(keyMaterial string) *Renderer {
	return &Renderer{
		KeyMaterial: keyMaterial,
		titler:      cases.Title(language.English),
	}
}

// RoomHeader renders the room banner, title-cased.
func (r *Renderer) RoomHeader(room string) string {
	return headerStyle.Render("# " + r.titler.String(room))
}

// Line renders one cached entry. System records become non-attributed
// banners, file records become reference lines, and encrypted text is
// decrypted with the viewer's key, falling back to the record's plaintext
// and finally to an explicit marker. This never panics and never emits a
// raw cipher blob.
func (r *Renderer) Line(e Entry) string {
	m := e.Msg

	if m.Kind == domain.KindSystem {
		return systemStyle.Render("— " + m.Text + " —")
	}

	prefix := senderStyle.Render(m.Sender) + " "
	if !m.CreatedAt.IsZero() {
		prefix = timeStyle.Render(m.CreatedAt.Format("15:04")) + " " + prefix
	}

	var body string
	switch {
	case m.Kind == domain.KindFile && m.FileRef != nil:
		body = fileStyle.Render(fmt.Sprintf("shared %s (%s) [%s]",
			m.FileRef.FileName, formatSize(m.FileRef.FileSize), m.FileRef.FileID))
	default:
		body = r.bodyText(m)
	}

	switch e.Delivery {
	case DeliveryPending:
		body += " " + timeStyle.Render("…")
	case DeliveryFailed:
		body += " " + failStyle.Render("✗ not delivered")
	}

	return prefix + body
}

// History renders the room header plus every entry, one per line.
func (r *Renderer) History(room string, entries []Entry) string {
	var b strings.Builder
	b.WriteString(r.RoomHeader(room))
	for _, e := range entries {
		b.WriteString("\n")
		b.WriteString(r.Line(e))
	}
	return b.String()
}

// bodyText resolves the display text of a text record: decrypted blob,
// plaintext fallback, or the explicit marker.
func (r *Renderer) bodyText(m domain.Message) string {
	if m.CipherText == "" {
		return m.Text
	}
	if res := cipher.Decrypt(m.CipherText, r.KeyMaterial); res.Decrypted {
		return res.Plaintext
	}
	if m.Text != "" {
		return m.Text
	}
	return lockedStyle.Render(undecryptableMarker)
}

// formatSize renders a byte count in a compact human form.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
