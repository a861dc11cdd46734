package certificate

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/campus-pms-api/internal/models"
)

// Generator renders internship completion certificates and stores the
// resulting PDF, returning a durable URL reference.
type Generator struct {
	storage *LocalStorage
	baseURL string
}

// NewGenerator constructs a Generator writing into the given storage.
func NewGenerator(storage *LocalStorage, baseURL string) *Generator {
	return &Generator{storage: storage, baseURL: strings.TrimRight(baseURL, "/")}
}

// Generate renders the certificate for a passport. Call only once the summary
// has been computed; the certificate quotes the final grade.
func (g *Generator) Generate(passport models.Passport, studentName string) (models.Certificate, error) {
	if !passport.Summary.Computed() {
		return models.Certificate{}, fmt.Errorf("summary not computed for %s", passport.IppID)
	}

	certID := fmt.Sprintf("CERT-%s", uuid.NewString()[:8])
	data, err := g.render(passport, studentName, certID)
	if err != nil {
		return models.Certificate{}, err
	}

	filename := fmt.Sprintf("%s.pdf", sanitize(passport.IppID))
	if _, err := g.storage.Save(filename, data); err != nil {
		return models.Certificate{}, err
	}

	now := time.Now().UTC()
	return models.Certificate{
		CertificateID:  certID,
		CertificateURL: fmt.Sprintf("%s/%s", g.baseURL, filename),
		GeneratedAt:    &now,
	}, nil
}

func (g *Generator) render(passport models.Passport, studentName, certID string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetDrawColor(60, 60, 120)
	pdf.SetLineWidth(1.2)
	pdf.Rect(10, 10, 277, 190, "D")

	pdf.SetFont("Times", "B", 28)
	pdf.CellFormat(0, 20, "CERTIFICATE OF INTERNSHIP COMPLETION", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Times", "", 14)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "B", 22)
	pdf.CellFormat(0, 14, studentName, "", 1, "C", false, 0, "")

	pdf.SetFont("Times", "", 14)
	body := fmt.Sprintf("has successfully completed an internship as %s at %s",
		passport.Details.Role, passport.Details.Company)
	pdf.CellFormat(0, 8, body, "", 1, "C", false, 0, "")
	period := fmt.Sprintf("from %s to %s",
		passport.Details.StartDate.Format("2 January 2006"),
		passport.Details.EndDate.Format("2 January 2006"))
	pdf.CellFormat(0, 8, period, "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Times", "B", 16)
	achievement := fmt.Sprintf("Performance Grade: %s    Overall Rating: %.1f / 10",
		passport.Summary.PerformanceGrade, passport.Summary.OverallRating)
	pdf.CellFormat(0, 10, achievement, "", 1, "C", false, 0, "")
	pdf.Ln(14)

	pdf.SetFont("Times", "", 10)
	footer := fmt.Sprintf("Certificate %s issued %s for passport %s",
		certID, time.Now().UTC().Format("2 January 2006"), passport.IppID)
	pdf.CellFormat(0, 6, footer, "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
