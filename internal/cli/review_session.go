// Package cli implements the interactive terminal frontends of the scheduler.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/kotoba-dev/kotoba/internal/card"
	"github.com/kotoba-dev/kotoba/internal/review"
)

// ReviewSessionCLI runs an interactive review session: it presents due cards
// one at a time, reads a recall grade and submits it to the controller.
type ReviewSessionCLI struct {
	controller   *review.Controller
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	newRequestID func() string
}

// NewReviewSessionCLI creates a session CLI reading from stdin and writing to stdout.
func NewReviewSessionCLI(controller *review.Controller) *ReviewSessionCLI {
	return &ReviewSessionCLI{
		controller:   controller,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		newRequestID: uuid.NewString,
	}
}

// Run drives one full session over the current due set.
func (cli *ReviewSessionCLI) Run(ctx context.Context, userID, collectionID string, limit int) error {
	cards, err := cli.controller.DueCards(ctx, userID, collectionID, limit)
	if err != nil {
		return fmt.Errorf("load due cards: %w", err)
	}
	if len(cards) == 0 {
		fmt.Fprintln(cli.stdoutWriter, "Nothing is due right now. Come back tomorrow!")
		return nil
	}

	session, err := cli.controller.StartSession(ctx, userID)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	fmt.Fprintf(cli.stdoutWriter, "Starting a review session with %d cards\n", len(cards))
	fmt.Fprintln(cli.stdoutWriter, "Grade your recall from 0 (blackout) to 5 (perfect). 's' skips, 'q' quits.")
	fmt.Fprintln(cli.stdoutWriter)

	for i, c := range cards {
		if err := cli.reviewCard(ctx, userID, session.ID, c, i+1, len(cards)); err != nil {
			if errors.Is(err, errEndSession) {
				break
			}
			return err
		}
	}

	closed, err := cli.controller.CloseSession(ctx, userID, session.ID)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}

	totals := closed.Totals
	fmt.Fprintln(cli.stdoutWriter)
	fmt.Fprintf(cli.stdoutWriter, "Session finished in %s: %d cards, %d correct, %d wrong, %d skipped\n",
		closed.Duration(*closed.EndedAt).Round(time.Second), totals.CardsSeen, totals.Correct, totals.Wrong, totals.Skipped)
	return nil
}

// errEndSession signals that the learner chose to stop early.
var errEndSession = errors.New("end of session")

func (cli *ReviewSessionCLI) reviewCard(ctx context.Context, userID, sessionID string, c card.Card, position, total int) error {
	if _, err := cli.bold.Fprintf(cli.stdoutWriter, "[%d/%d] %s\n", position, total, c.ContentRef); err != nil {
		return fmt.Errorf("write card prompt: %w", err)
	}

	for {
		fmt.Fprint(cli.stdoutWriter, "Grade (0-5, s, q): ")
		line, err := cli.stdinReader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errEndSession
			}
			return fmt.Errorf("read answer: %w", err)
		}

		switch answer := strings.TrimSpace(line); answer {
		case "q":
			return errEndSession
		case "s":
			if err := cli.controller.SkipCard(ctx, userID, sessionID); err != nil {
				return fmt.Errorf("skip card: %w", err)
			}
			fmt.Fprintln(cli.stdoutWriter, "Skipped.")
			return nil
		default:
			quality, err := strconv.Atoi(answer)
			if err != nil || !card.ValidQuality(quality) {
				fmt.Fprintln(cli.stdoutWriter, "Please answer with 0-5, 's' or 'q'.")
				continue
			}
			return cli.submit(ctx, userID, sessionID, c.ID, quality)
		}
	}
}

// submit applies one grade. Storage failures are retried with the same
// request id, so a submission that actually went through the first time is
// replayed instead of applied twice.
func (cli *ReviewSessionCLI) submit(ctx context.Context, userID, sessionID, cardID string, quality int) error {
	requestID := cli.newRequestID()

	var result review.Result
	err := retry.Do(
		func() error {
			var err error
			result, err = cli.controller.SubmitReview(ctx, userID, review.Submission{
				SessionID: sessionID,
				CardID:    cardID,
				Quality:   quality,
				RequestID: requestID,
			})
			return err
		},
		retry.Attempts(3),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, card.ErrStorage) || errors.Is(err, card.ErrRateLimited)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("submit review: %w", err)
	}

	next := "tomorrow"
	if result.IntervalDays != 1 {
		next = fmt.Sprintf("in %d days", result.IntervalDays)
	}
	if quality >= card.PassThreshold {
		color.Green("Correct! Next review %s (ease %.2f)", next, result.EasinessFactor)
	} else {
		color.Red("Back to the start. Next review %s", next)
	}
	return nil
}
