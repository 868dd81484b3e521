package conversation

import (
	"fmt"
	"strings"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
	RoleAI     Role = "ai"
)

// Label returns the line prefix for the role, e.g. "User".
func (r Role) Label() string {
	switch r {
	case RoleSystem:
		return "System"
	case RoleUser:
		return "User"
	case RoleAI:
		return "AI"
	default:
		return string(r)
	}
}

// labels maps line prefixes to roles.
var labels = []struct {
	prefix string
	role   Role
}{
	{"System: ", RoleSystem},
	{"User: ", RoleUser},
	{"AI: ", RoleAI},
}

// Turn is a single message in a transcript.
type Turn struct {
	Role Role
	Text string
}

// Transcript is an ordered list of turns.
type Transcript struct {
	Turns []Turn
}

// Preamble builds the system instruction seeded into a new conversation.
func Preamble(userName, userProblem string) string {
	return fmt.Sprintf(
		"You are a customer support agent. This consumer identified as %s described their problem as: %s. Help them.",
		userName, userProblem,
	)
}

// escape prefixes a continuation line that would otherwise read as a role
// label, or that itself starts with escape.
const escape = `\`

// Parse splits transcript text into turns. A line that starts with a role
// label opens a new turn; any other line continues the previous one, with
// one leading escape removed. Text before the first label is treated as the
// system instruction, which is how transcripts without a "System:" line are
// stored. Parse(t.String()) reproduces t for every transcript.
func Parse(text string) *Transcript {
	t := &Transcript{}
	if text == "" {
		return t
	}

	for _, line := range strings.Split(text, "\n") {
		if role, body, ok := splitLabel(line); ok {
			t.Turns = append(t.Turns, Turn{Role: role, Text: body})
			continue
		}

		if len(t.Turns) == 0 {
			t.Turns = append(t.Turns, Turn{Role: RoleSystem, Text: line})
			continue
		}

		last := &t.Turns[len(t.Turns)-1]
		last.Text += "\n" + strings.TrimPrefix(line, escape)
	}

	// Older cookies carry a bare "AI:" prompt line before each reply.
	turns := t.Turns[:0]
	for _, turn := range t.Turns {
		if turn.Role == RoleAI && turn.Text == "" {
			continue
		}
		turns = append(turns, turn)
	}
	t.Turns = turns

	return t
}

func splitLabel(line string) (Role, string, bool) {
	for _, l := range labels {
		if strings.HasPrefix(line, l.prefix) {
			return l.role, strings.TrimPrefix(line, l.prefix), true
		}
	}
	if line == "AI:" {
		return RoleAI, "", true
	}
	return "", "", false
}

// String renders the transcript in its newline-delimited form. Continuation
// lines that look like a role label are escaped.
func (t *Transcript) String() string {
	var sb strings.Builder
	for i, turn := range t.Turns {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(turn.Role.Label())
		sb.WriteString(": ")

		first, rest, more := strings.Cut(turn.Text, "\n")
		sb.WriteString(first)
		for more {
			var line string
			line, rest, more = strings.Cut(rest, "\n")
			sb.WriteByte('\n')
			if _, _, ok := splitLabel(line); ok || strings.HasPrefix(line, escape) {
				sb.WriteString(escape)
			}
			sb.WriteString(line)
		}
	}
	return sb.String()
}

// IsEmpty reports whether the transcript has no turns.
func (t *Transcript) IsEmpty() bool {
	return len(t.Turns) == 0
}

// Append adds a turn to the end of the transcript.
func (t *Transcript) Append(role Role, text string) {
	t.Turns = append(t.Turns, Turn{Role: role, Text: text})
}

// SystemPrompt returns the text of the first system turn, or "".
func (t *Transcript) SystemPrompt() string {
	for _, turn := range t.Turns {
		if turn.Role == RoleSystem {
			return turn.Text
		}
	}
	return ""
}

// Prompt renders the transcript followed by an open "AI:" line, the form
// sent to providers that take the whole conversation as one prompt.
func (t *Transcript) Prompt() string {
	return t.String() + "\nAI:"
}

// Encode returns the cookie token for the transcript.
func (t *Transcript) Encode() string {
	return Encode(t.String())
}

// Fit drops the oldest non-system turns until the encoded transcript is at
// most maxBytes long. The last turn is never dropped. It returns the number
// of turns removed and whether the result fits.
func (t *Transcript) Fit(maxBytes int) (dropped int, fits bool) {
	if maxBytes <= 0 {
		return 0, true
	}

	for EncodedLen(t.String()) > maxBytes {
		idx := t.oldestDroppable()
		if idx < 0 {
			return dropped, false
		}
		t.Turns = append(t.Turns[:idx], t.Turns[idx+1:]...)
		dropped++
	}

	return dropped, true
}

func (t *Transcript) oldestDroppable() int {
	for i := 0; i < len(t.Turns)-1; i++ {
		if t.Turns[i].Role != RoleSystem {
			return i
		}
	}
	return -1
}

// Load decodes a cookie token into a transcript. An empty token yields an
// empty transcript; a malformed one yields an empty transcript and the
// *DecodeError.
func Load(token string) (*Transcript, error) {
	if token == "" {
		return &Transcript{}, nil
	}
	text, err := Decode(token)
	if err != nil {
		return &Transcript{}, err
	}
	return Parse(text), nil
}
