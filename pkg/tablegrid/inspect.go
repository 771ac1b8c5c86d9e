package tablegrid

import (
	"log/slog"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/commands"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/fix"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/parser"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/transform"
)

// TableReport describes one table of a document.
type TableReport struct {
	Index    int                `json:"index"`
	Pos      int                `json:"pos"`
	Sheet    string             `json:"sheet,omitempty"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	Problems []tablemap.Problem `json:"problems,omitempty"`

	table *models.Node
	m     *tablemap.TableMap
}

// Table returns the reported table node.
func (r TableReport) Table() *models.Node { return r.table }

// Map returns the reported table's map.
func (r TableReport) Map() *tablemap.TableMap { return r.m }

// Report describes every table of a document.
type Report struct {
	Tables       []TableReport `json:"tables"`
	ProblemCount int           `json:"problem_count"`
}

// Inspect maps every table in doc and collects their problems.
func Inspect(doc *models.Node) (*Report, error) {
	report := &Report{Tables: []TableReport{}}
	var err error
	doc.Descendants(func(node *models.Node, pos int) bool {
		if err != nil || node.Role() != models.RoleTable {
			return err == nil
		}
		var m *tablemap.TableMap
		if m, err = tablemap.Get(node); err != nil {
			return false
		}
		sheet, _ := node.Attrs.Get(parser.AttrSheet).(string)
		report.Tables = append(report.Tables, TableReport{
			Index:    len(report.Tables),
			Pos:      pos,
			Sheet:    sheet,
			Width:    m.Width,
			Height:   m.Height,
			Problems: m.Problems,
			table:    node,
			m:        m,
		})
		report.ProblemCount += len(m.Problems)
		return false
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Repair applies table repairs to doc until no table reports a problem,
// at most maxPasses times. It returns the repaired document and the number
// of passes that changed something. When tables are still broken after
// maxPasses it returns the last document with ErrNotStable.
func Repair(doc *models.Node, maxPasses int) (*models.Node, int, error) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxRepairPasses
	}
	for pass := 0; pass < maxPasses; pass++ {
		tr := transform.New(doc)
		changed, err := fix.Tables(tr, nil)
		if err != nil {
			return doc, pass, err
		}
		if !changed {
			return doc, pass, nil
		}
		doc = tr.Doc()
	}
	report, err := Inspect(doc)
	if err != nil {
		return doc, maxPasses, err
	}
	if report.ProblemCount > 0 {
		return doc, maxPasses, ErrNotStable
	}
	return doc, maxPasses, nil
}

// Normalize is the hook to run after any change from old to cur: it
// repairs tables that changed and normalizes the selection. It returns nil
// when nothing needs doing.
func Normalize(old, cur commands.State) (*commands.Transaction, error) {
	tr, err := commands.Normalize(old, cur)
	if err != nil {
		return nil, err
	}
	if tr != nil && tr.DocChanged() {
		logger().Debug("normalized document", slog.Int("steps", len(tr.Steps())))
	}
	return tr, nil
}
