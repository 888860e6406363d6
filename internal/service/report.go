package service

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

// SkippedReport formats the skipped bank items of a session for the quiz author.
// It returns "" when nothing was skipped.
func SkippedReport(session *entities.QuizSession) string {
	if len(session.Skipped) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: skipped %d malformed item(s)\n", session.Chapter, len(session.Skipped))
	for _, issue := range session.Skipped {
		fmt.Fprintf(&b, "  %s[%d]: %s\n", issue.Source, issue.Index, issue.Reason)
	}
	return b.String()
}
