package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/rtcchoir/choirdesk/internal/model"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// Renderer turns a member list into export byte streams. It never touches the
// repository or the asset store; the lifecycle layer hands it loaded records.
type Renderer struct {
	Log *zap.Logger
}

func NewRenderer(zap *zap.Logger) *Renderer {
	return &Renderer{Log: zap}
}

var csvHeader = []string{
	"Full Name", "Gender", "Marital Status", "Part", "Zone", "Area", "Parish",
	"Parish Address", "Residential Address", "State of Origin", "Home Town",
	"Occupation", "Phone No", "Join Year", "Position", "Instruments", "Registered",
}

func joinYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func (renderer *Renderer) RenderCSV(members []model.Member) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, m := range members {
		row := []string{
			m.FullName, m.Gender, m.Status, m.Part, m.Zone, m.Area, m.Parish,
			m.ParishAddress, m.ResidentialAddress, m.StateOfOrigin, m.HomeTown,
			m.Occupation, m.PhoneNo, joinYear(m.JoinYear),
			strings.Join(m.Position, "; "), strings.Join(m.Instruments, "; "),
			m.CreatedAt.Format("2006-01-02"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

type pdfColumn struct {
	title string
	width float64
	value func(model.Member) string
}

var pdfColumns = []pdfColumn{
	{"Full Name", 55, func(m model.Member) string { return m.FullName }},
	{"Part", 25, func(m model.Member) string { return m.Part }},
	{"Zone", 30, func(m model.Member) string { return m.Zone }},
	{"Parish", 50, func(m model.Member) string { return m.Parish }},
	{"Phone No", 35, func(m model.Member) string { return m.PhoneNo }},
	{"Position", 50, func(m model.Member) string { return strings.Join(m.Position, ", ") }},
	{"Join Year", 22, func(m model.Member) string { return joinYear(m.JoinYear) }},
}

func (renderer *Renderer) RenderPDF(members []model.Member) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Choir Member Roster", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, m := range members {
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, col.value(m), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
