package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/perftracker/internal/errs"
	"github.com/deppfellow/perftracker/internal/model"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// fakeTracker keeps records in memory and hands out sequential ids.
type fakeTracker struct {
	employees []model.Employee
	criteria  []model.EvaluationCriterion
	scores    []model.EvaluationScore

	addErr  error
	listErr error
}

func (f *fakeTracker) AddEmployee(_ context.Context, e *model.Employee) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	e.ID = int64(len(f.employees) + 1)
	f.employees = append(f.employees, *e)
	return e.ID, nil
}

func (f *fakeTracker) AddCriterion(_ context.Context, c *model.EvaluationCriterion) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	c.ID = int64(len(f.criteria) + 1)
	f.criteria = append(f.criteria, *c)
	return c.ID, nil
}

func (f *fakeTracker) AddScore(_ context.Context, s *model.EvaluationScore) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	s.ID = int64(len(f.scores) + 1)
	f.scores = append(f.scores, *s)
	return s.ID, nil
}

func (f *fakeTracker) ListEmployees(context.Context) ([]model.Employee, error) {
	return f.employees, f.listErr
}

func (f *fakeTracker) ListCriteria(context.Context) ([]model.EvaluationCriterion, error) {
	return f.criteria, f.listErr
}

func (f *fakeTracker) ListScores(context.Context) ([]model.EvaluationScore, error) {
	return f.scores, f.listErr
}

func runSession(t *testing.T, tracker Tracker, input string) (string, *Shell) {
	t.Helper()

	var out bytes.Buffer
	logger := zerolog.Nop()
	sh := New(tracker, NewStreamReader(strings.NewReader(input), &out), &out, &logger)
	require.NoError(t, sh.Run(context.Background()))
	return out.String(), sh
}

func TestAddEmployee(t *testing.T) {
	tracker := &fakeTracker{}

	out, sh := runSession(t, tracker, "1\nAda Lovelace\n  R&D \nEngineer\n7\n")

	assert.Equal(t, StateExit, sh.State())
	assert.Equal(t, []model.Employee{{ID: 1, Name: "Ada Lovelace", Department: "R&D", JobTitle: "Engineer"}}, tracker.employees)
	assert.Contains(t, out, "Employee added with id 1")
	assert.Contains(t, out, "Job title: ")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
}

func TestAddCriterion(t *testing.T) {
	tracker := &fakeTracker{}

	out, _ := runSession(t, tracker, "2\nQuality of Work\nAbility to produce high-quality work\n0.5\n7\n")

	require.Len(t, tracker.criteria, 1)
	assert.Equal(t, 0.5, tracker.criteria[0].Weightage)
	assert.Contains(t, out, "Evaluation criterion added with id 1")
}

func TestInvalidChoiceReturnsToMenu(t *testing.T) {
	tracker := &fakeTracker{}

	out, _ := runSession(t, tracker, "9\nabc\n\n7\n")

	assert.Contains(t, out, `Error: invalid choice "9", enter a number from 1 to 7`)
	assert.Contains(t, out, `Error: invalid choice "abc"`)
	assert.Contains(t, out, `Error: invalid choice ""`)
	assert.Equal(t, 4, strings.Count(out, "Employee Performance Tracker"))
	assert.Empty(t, tracker.employees)
	assert.Empty(t, tracker.criteria)
	assert.Empty(t, tracker.scores)
}

func TestNumericFieldsAreAskedAgain(t *testing.T) {
	tracker := &fakeTracker{}

	out, _ := runSession(t, tracker, "3\nabc\n1\n1.5\n2\nhigh\n4.5\n7\n")

	assert.Equal(t, []model.EvaluationScore{{ID: 1, EmployeeID: 1, CriterionID: 2, Score: 4.5}}, tracker.scores)
	assert.Contains(t, out, `Error: "abc" is not a whole number`)
	assert.Contains(t, out, `Error: "1.5" is not a whole number`)
	assert.Contains(t, out, `Error: "high" is not a number`)
	assert.Equal(t, 2, strings.Count(out, "Employee id: "))
}

func TestRejectedInsertKeepsSessionAlive(t *testing.T) {
	code := "EMPLOYEE_NOT_FOUND"
	tracker := &fakeTracker{
		addErr: errs.NewBadRequestError("The referenced Employee does not exist", &code, nil),
	}

	out, sh := runSession(t, tracker, "3\n99\n1\n4\n7\n")

	assert.Contains(t, out, "Error: The referenced Employee does not exist")
	assert.NotContains(t, out, "added with id")
	assert.Equal(t, StateExit, sh.State())
}

func TestValidationErrorListsFields(t *testing.T) {
	tracker := &fakeTracker{
		addErr: errs.NewBadRequestError("Validation failed", nil, []errs.FieldError{{Field: "name", Error: "is required"}}),
	}

	out, _ := runSession(t, tracker, "1\n\nOps\nSRE\n7\n")

	assert.Contains(t, out, "Error: Validation failed: name is required")
}

func TestListing(t *testing.T) {
	tracker := &fakeTracker{
		employees: []model.Employee{{ID: 1, Name: "O'Brien", Department: "Ops", JobTitle: "SRE"}},
		scores:    []model.EvaluationScore{{ID: 3, EmployeeID: 1, CriterionID: 2, Score: 0.1}},
	}

	out, _ := runSession(t, tracker, "4\n5\n6\n7\n")

	assert.Contains(t, out, "Job Title")
	assert.Contains(t, out, "O'Brien")
	assert.Contains(t, out, "no records")
	assert.Contains(t, out, "0.1")
}

func TestListFailureIsReported(t *testing.T) {
	tracker := &fakeTracker{listErr: errs.NewInternalError(errors.New("disk I/O error"))}

	out, _ := runSession(t, tracker, "4\n7\n")

	assert.Contains(t, out, "Error: An internal error occurred")
	assert.NotContains(t, out, "disk I/O")
}

func TestEndOfInputExits(t *testing.T) {
	for name, input := range map[string]string{
		"empty":            "",
		"after choice":     "1\n",
		"mid insert":       "1\nAda\nR&D\n",
		"without newline":  "4",
		"after bad number": "3\nabc\n",
	} {
		t.Run(name, func(t *testing.T) {
			tracker := &fakeTracker{}

			out, sh := runSession(t, tracker, input)

			assert.Equal(t, StateExit, sh.State())
			assert.Empty(t, tracker.employees)
			assert.Empty(t, tracker.scores)
			assert.Contains(t, out, "Goodbye!")
		})
	}
}

type failingReader struct{ err error }

func (r failingReader) ReadLine(string) (string, error) { return "", r.err }
func (r failingReader) Close() error                    { return nil }

func TestReadFailureIsFatal(t *testing.T) {
	boom := errors.New("device not configured")
	logger := zerolog.Nop()
	sh := New(&fakeTracker{}, failingReader{err: boom}, io.Discard, &logger)

	err := sh.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StateAwaitChoice, sh.State())
}

func TestParseChoice(t *testing.T) {
	valid := map[string]State{
		"1":   StateInsertEmployee,
		" 2 ": StateInsertCriterion,
		"3":   StateInsertScore,
		"4":   StateListEmployees,
		"5":   StateListCriteria,
		"6\t": StateListScores,
		"7":   StateExit,
		"07":  StateExit,
	}
	for in, want := range valid {
		got, ok := ParseChoice(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "0", "8", "-1", "1.0", "one", "1 2"} {
		_, ok := ParseChoice(in)
		assert.False(t, ok, in)
	}
}

func TestStreamReader(t *testing.T) {
	var prompts bytes.Buffer
	r := NewStreamReader(strings.NewReader("first\r\nlast"), &prompts)

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = r.ReadLine("> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > ", prompts.String())
}
