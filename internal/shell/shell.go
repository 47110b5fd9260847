// Package shell is the interactive front end of the tracker.
//
// It runs a small state machine: show the menu, await a choice, run the
// chosen insert or list action, and come back to the menu until Exit.
// Bad input never ends the session. A non-numeric choice or field value
// is reported and asked again, and a rejected insert is reported before
// returning to the menu. Only an input read failure is fatal.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/deppfellow/perftracker/internal/errs"
	"github.com/deppfellow/perftracker/internal/model"
)

// Tracker is the business layer the shell drives.
type Tracker interface {
	AddEmployee(ctx context.Context, e *model.Employee) (int64, error)
	AddCriterion(ctx context.Context, c *model.EvaluationCriterion) (int64, error)
	AddScore(ctx context.Context, s *model.EvaluationScore) (int64, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListCriteria(ctx context.Context) ([]model.EvaluationCriterion, error)
	ListScores(ctx context.Context) ([]model.EvaluationScore, error)
}

// State is a node of the shell's state machine.
type State int

const (
	StateMenuDisplay State = iota
	StateAwaitChoice
	StateInsertEmployee
	StateInsertCriterion
	StateInsertScore
	StateListEmployees
	StateListCriteria
	StateListScores
	StateExit
)

func (s State) String() string {
	switch s {
	case StateMenuDisplay:
		return "menu"
	case StateAwaitChoice:
		return "await_choice"
	case StateInsertEmployee:
		return "insert_employee"
	case StateInsertCriterion:
		return "insert_criterion"
	case StateInsertScore:
		return "insert_score"
	case StateListEmployees:
		return "list_employees"
	case StateListCriteria:
		return "list_criteria"
	case StateListScores:
		return "list_scores"
	case StateExit:
		return "exit"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// menu maps each numbered choice to the state it starts.
var menu = []struct {
	label string
	state State
}{
	{"Add employee", StateInsertEmployee},
	{"Add evaluation criterion", StateInsertCriterion},
	{"Add evaluation score", StateInsertScore},
	{"List employees", StateListEmployees},
	{"List evaluation criteria", StateListCriteria},
	{"List evaluation scores", StateListScores},
	{"Exit", StateExit},
}

// Shell is one interactive session.
type Shell struct {
	tracker Tracker
	in      LineReader
	out     io.Writer
	log     *zerolog.Logger

	state State

	errColor *color.Color
	okColor  *color.Color
}

// New creates a shell reading from in and writing to out.
func New(tracker Tracker, in LineReader, out io.Writer, logger *zerolog.Logger) *Shell {
	return &Shell{
		tracker:  tracker,
		in:       in,
		out:      out,
		log:      logger,
		state:    StateMenuDisplay,
		errColor: color.New(color.FgRed),
		okColor:  color.New(color.FgGreen),
	}
}

// State returns the state the shell is currently in.
func (s *Shell) State() State {
	return s.state
}

// Run drives the state machine until Exit is chosen or input ends.
// It returns nil in both cases and an error only when reading input
// fails for another reason.
func (s *Shell) Run(ctx context.Context) error {
	for s.state != StateExit {
		next, err := s.step(ctx)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			next, err = StateExit, nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		s.log.Debug().Stringer("from", s.state).Stringer("to", next).Msg("shell transition")
		s.state = next
	}
	fmt.Fprintln(s.out, "Goodbye!")
	return nil
}

// step runs the current state once and returns the next one.
func (s *Shell) step(ctx context.Context) (State, error) {
	switch s.state {
	case StateMenuDisplay:
		s.printMenu()
		return StateAwaitChoice, nil

	case StateAwaitChoice:
		line, err := s.in.ReadLine("Enter your choice: ")
		if err != nil {
			return s.state, err
		}
		next, ok := ParseChoice(line)
		if !ok {
			s.reportf("invalid choice %q, enter a number from 1 to %d", strings.TrimSpace(line), len(menu))
			return StateMenuDisplay, nil
		}
		return next, nil

	case StateInsertEmployee:
		return StateMenuDisplay, s.insertEmployee(ctx)
	case StateInsertCriterion:
		return StateMenuDisplay, s.insertCriterion(ctx)
	case StateInsertScore:
		return StateMenuDisplay, s.insertScore(ctx)

	case StateListEmployees:
		s.listEmployees(ctx)
		return StateMenuDisplay, nil
	case StateListCriteria:
		s.listCriteria(ctx)
		return StateMenuDisplay, nil
	case StateListScores:
		s.listScores(ctx)
		return StateMenuDisplay, nil
	}

	return StateExit, nil
}

// ParseChoice maps a menu input to its state. Only the integers 1..7,
// with optional surrounding whitespace, are accepted.
func ParseChoice(line string) (State, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(menu) {
		return StateMenuDisplay, false
	}
	return menu[n-1].state, true
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Employee Performance Tracker")
	for i, item := range menu {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, item.label)
	}
}

func (s *Shell) insertEmployee(ctx context.Context) error {
	var (
		e   model.Employee
		err error
	)
	if e.Name, err = s.promptText("Name: "); err != nil {
		return err
	}
	if e.Department, err = s.promptText("Department: "); err != nil {
		return err
	}
	if e.JobTitle, err = s.promptText("Job title: "); err != nil {
		return err
	}

	id, err := s.tracker.AddEmployee(ctx, &e)
	if err != nil {
		s.reportError(err)
		return nil
	}
	s.okColor.Fprintf(s.out, "Employee added with id %d\n", id)
	return nil
}

func (s *Shell) insertCriterion(ctx context.Context) error {
	var (
		c   model.EvaluationCriterion
		err error
	)
	if c.Name, err = s.promptText("Name: "); err != nil {
		return err
	}
	if c.Description, err = s.promptText("Description: "); err != nil {
		return err
	}
	if c.Weightage, err = s.promptFloat("Weightage: "); err != nil {
		return err
	}

	id, err := s.tracker.AddCriterion(ctx, &c)
	if err != nil {
		s.reportError(err)
		return nil
	}
	s.okColor.Fprintf(s.out, "Evaluation criterion added with id %d\n", id)
	return nil
}

func (s *Shell) insertScore(ctx context.Context) error {
	var (
		sc  model.EvaluationScore
		err error
	)
	if sc.EmployeeID, err = s.promptInt("Employee id: "); err != nil {
		return err
	}
	if sc.CriterionID, err = s.promptInt("Criterion id: "); err != nil {
		return err
	}
	if sc.Score, err = s.promptFloat("Score: "); err != nil {
		return err
	}

	id, err := s.tracker.AddScore(ctx, &sc)
	if err != nil {
		s.reportError(err)
		return nil
	}
	s.okColor.Fprintf(s.out, "Evaluation score added with id %d\n", id)
	return nil
}

func (s *Shell) listEmployees(ctx context.Context) {
	employees, err := s.tracker.ListEmployees(ctx)
	if err != nil {
		s.reportError(err)
		return
	}
	renderEmployees(s.out, employees)
}

func (s *Shell) listCriteria(ctx context.Context) {
	criteria, err := s.tracker.ListCriteria(ctx)
	if err != nil {
		s.reportError(err)
		return
	}
	renderCriteria(s.out, criteria)
}

func (s *Shell) listScores(ctx context.Context) {
	scores, err := s.tracker.ListScores(ctx)
	if err != nil {
		s.reportError(err)
		return
	}
	renderScores(s.out, scores)
}

// promptText reads one value with surrounding whitespace trimmed.
func (s *Shell) promptText(prompt string) (string, error) {
	line, err := s.in.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptInt asks until the answer parses as an integer.
func (s *Shell) promptInt(prompt string) (int64, error) {
	for {
		text, err := s.promptText(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return n, nil
		}
		s.reportf("%q is not a whole number", text)
	}
}

// promptFloat asks until the answer parses as a number.
func (s *Shell) promptFloat(prompt string) (float64, error) {
	for {
		text, err := s.promptText(prompt)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(text, 64)
		if err == nil {
			return f, nil
		}
		s.reportf("%q is not a number", text)
	}
}

// reportError prints err for the user; the session carries on.
// Application errors print their own message without the wrapping
// context added by the service layer.
func (s *Shell) reportError(err error) {
	msg := err.Error()
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		msg = appErr.Error()
	}
	s.reportf("%s", msg)
}

func (s *Shell) reportf(format string, args ...any) {
	s.errColor.Fprintf(s.out, "Error: "+format+"\n", args...)
}
