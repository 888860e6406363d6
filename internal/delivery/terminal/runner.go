// Package terminal runs a quiz session interactively over a reader and a writer.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
	"github.com/aliskhannn/labquiz/internal/service"
)

const maxAttempts = 3

type Grader interface {
	CheckAnswer(session *entities.QuizSession, questionID, letter string) (entities.Feedback, error)
}

type Runner struct {
	grader Grader
	in     *bufio.Reader
	out    io.Writer
}

func NewRunner(grader Grader, in io.Reader, out io.Writer) *Runner {
	return &Runner{
		grader: grader,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Run asks every question of the session in order and prints the final score.
// Questions without an answer key entry are shown but not graded.
func (r *Runner) Run(session *entities.QuizSession) (*service.Scorecard, error) {
	card := service.NewScorecard(session)

	fmt.Fprintf(r.out, "%s (%d questions)\n", session.Title, len(session.Questions))

	for _, q := range session.Questions {
		r.printQuestion(q)

		letter, ok := r.readLetter()
		fmt.Fprintln(r.out)
		if !ok {
			fmt.Fprintln(r.out, "Skipped.")
			continue
		}

		fb, err := r.grader.CheckAnswer(session, q.ID, letter)
		if err != nil {
			if errors.Is(err, service.ErrAnswerKeyMissing) {
				fmt.Fprintln(r.out, "No feedback available for this question.")
				continue
			}
			return card, err
		}

		card.Record(fb)
		r.printFeedback(fb)
	}

	correct, answered, total := card.Score()
	fmt.Fprintf(r.out, "\nFinal score: %d/%d (answered %d)\n", correct, total, answered)
	return card, nil
}

func (r *Runner) printQuestion(q entities.RenderedQuestion) {
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%d. %s\n\n", q.Number, q.Text)
	for _, opt := range q.Options {
		fmt.Fprintf(r.out, "  %s) %s\n", opt.Letter, opt.Text)
	}
	fmt.Fprintln(r.out)
}

func (r *Runner) printFeedback(fb entities.Feedback) {
	fmt.Fprintln(r.out, fb.Message)
	if fb.Explanation != "" {
		fmt.Fprintln(r.out, fb.Explanation)
	}
	if fb.Citation != "" {
		fmt.Fprintf(r.out, "Source: %s\n", fb.Citation)
	}
}

func (r *Runner) readLetter() (string, bool) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		fmt.Fprint(r.out, "Your answer (a-d): ")
		line, err := r.in.ReadString('\n')
		if letter := entities.NormalizeLetter(line); letter != "" {
			return letter, true
		}
		if err != nil {
			return "", false
		}
		if attempt < maxAttempts {
			fmt.Fprintln(r.out, "\nInvalid input. Please enter a letter a-d.")
		}
	}
	return "", false
}
