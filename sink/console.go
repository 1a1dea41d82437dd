// Package sink contains event consumers plugged behind the coordinator.
// Sinks observe applied events for side effects and never mutate state.
package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/gookit/color"

	"peerchat/domain"
	"peerchat/domain/event"
)

// Console renders applied events for a terminal session.
type Console struct {
	out  io.Writer
	self string
}

func NewConsole(out io.Writer, self string) *Console {
	return &Console{out: out, self: self}
}

func (c *Console) Consume(_ context.Context, e event.Event) error {
	switch evt := e.(type) {
	case event.MessageReceived:
		c.printMessage(evt.Author, evt.Content)
	case event.ChatHistory:
		fmt.Fprintln(c.out, color.Gray.Render("--- chat history ---"))
		for _, m := range evt.Messages {
			c.printMessage(m.Author, m.Content)
		}
	case event.StreamedChunk:
		// Chunks stream in as they are generated; the assembled message
		// already lives in the timeline.
		fmt.Fprint(c.out, color.Green.Render(evt.TextFragment))
	case event.TypingNotice:
		if evt.Username != c.self {
			fmt.Fprintln(c.out, color.Gray.Sprintf("%s is typing...", evt.Username))
		}
	case event.Roster:
		for _, p := range evt.Participants {
			if p.Username == c.self {
				continue
			}
			marker := color.Red.Render("●")
			if p.Online {
				marker = color.Green.Render("●")
			}
			fmt.Fprintf(c.out, "%s %s\n", marker, p.Username)
		}
	case event.ParticipantJoined:
		fmt.Fprintln(c.out, color.Gray.Sprintf("%s joined", evt.Username))
	case event.ParticipantLeft:
		fmt.Fprintln(c.out, color.Gray.Sprintf("%s left", evt.Username))
	}
	return nil
}

func (c *Console) printMessage(author, content string) {
	label := color.Cyan.Sprintf("%s:", author)
	if author == c.self || author == domain.LocalAuthor {
		label = color.Yellow.Sprintf("%s:", author)
	}
	fmt.Fprintf(c.out, "%s %s\n", label, content)
}
