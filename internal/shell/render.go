package shell

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/deppfellow/perftracker/internal/model"
)

const emptyListMessage = "no records"

func renderEmployees(w io.Writer, employees []model.Employee) {
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{formatID(e.ID), e.Name, e.Department, e.JobTitle})
	}
	renderTable(w, []string{"ID", "Name", "Department", "Job Title"}, rows)
}

func renderCriteria(w io.Writer, criteria []model.EvaluationCriterion) {
	rows := make([][]string, 0, len(criteria))
	for _, c := range criteria {
		rows = append(rows, []string{formatID(c.ID), c.Name, c.Description, formatFloat(c.Weightage)})
	}
	renderTable(w, []string{"ID", "Name", "Description", "Weightage"}, rows)
}

func renderScores(w io.Writer, scores []model.EvaluationScore) {
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, []string{
			formatID(s.ID),
			formatID(s.EmployeeID),
			formatID(s.CriterionID),
			formatFloat(s.Score),
		})
	}
	renderTable(w, []string{"ID", "Employee ID", "Criterion ID", "Score"}, rows)
}

// renderTable prints rows under header, or emptyListMessage when there
// are none.
func renderTable(w io.Writer, header []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, emptyListMessage)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// formatFloat prints the shortest representation that reads back to
// the same float64, so 0.1 shows as 0.1 and nothing is rounded away.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
