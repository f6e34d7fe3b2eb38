package catalogue

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/modules/valuation"
)

const (
	DescriptionLimit = 600
	ImageBoxMM       = 70.0

	marginMM  = 20.0
	gutterMM  = 6.0
	sectionMM = 8.0
)

// Image is an encoded JPEG or PNG ready for embedding, with its pixel size.
type Image struct {
	Data   []byte
	Format string // "JPG" or "PNG"
	Width  int
	Height int
}

type Entry struct {
	Lot   *types.Lot
	Image *Image
}

type Document struct {
	HouseName   string
	Auction     *types.Auction
	Entries     []Entry
	Placeholder *Image
	GeneratedAt time.Time
}

// TruncateDescription cuts at limit runes and marks the cut with an ellipsis.
func TruncateDescription(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return strings.TrimRight(string(r[:limit]), " ,.;:") + "..."
}

// FitBox scales (w, h) to the largest size inside boxW x boxH that keeps the aspect ratio.
func FitBox(w, h int, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	sw := boxW / float64(w)
	sh := boxH / float64(h)
	s := sw
	if sh < s {
		s = sh
	}
	return float64(w) * s, float64(h) * s
}

func FormatEstimate(low, high float64) string {
	return fmt.Sprintf("Estimate: %s - %s", valuation.FormatPounds(low), valuation.FormatPounds(high))
}

type renderer struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	doc   Document
	pageW float64
	pageH float64
	imgN  int
}

// Render writes an A4 catalogue: cover, one section per lot, closing page.
func Render(w io.Writer, doc Document) error {
	if doc.Auction == nil {
		return fmt.Errorf("catalogue: auction is required")
	}
	if strings.TrimSpace(doc.HouseName) == "" {
		doc.HouseName = "Fotherby's"
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(false, marginMM)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
		pdf.SetModificationDate(doc.GeneratedAt)
	}
	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), doc: doc}
	r.pageW, r.pageH = pdf.GetPageSize()

	pdf.SetTitle(r.tr(doc.Auction.Title), false)
	pdf.SetAuthor(r.tr(doc.HouseName), false)
	pdf.SetFooterFunc(r.footer)

	r.cover()
	for _, e := range doc.Entries {
		r.lot(e)
	}
	r.closing()

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("catalogue: %w", err)
	}
	return pdf.Output(w)
}

func (r *renderer) contentW() float64 { return r.pageW - 2*marginMM }

func (r *renderer) centered(font, style string, size, h float64, text string) {
	r.pdf.SetFont(font, style, size)
	r.pdf.CellFormat(r.contentW(), h, r.tr(text), "", 1, "C", false, 0, "")
}

func (r *renderer) rule() {
	y := r.pdf.GetY()
	r.pdf.SetDrawColor(180, 180, 180)
	r.pdf.SetLineWidth(0.3)
	r.pdf.Line(marginMM, y, r.pageW-marginMM, y)
}

func (r *renderer) footer() {
	if r.pdf.PageNo() == 1 {
		return
	}
	r.pdf.SetY(-12)
	r.pdf.SetFont("Helvetica", "", 8)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(r.contentW(), 5, r.tr(fmt.Sprintf("%s  |  %s  |  %d", r.doc.HouseName, r.doc.Auction.Title, r.pdf.PageNo())), "", 0, "C", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *renderer) cover() {
	a := r.doc.Auction
	r.pdf.AddPage()
	r.pdf.SetY(70)
	r.pdf.SetTextColor(20, 20, 20)
	r.centered("Times", "B", 36, 16, strings.ToUpper(r.doc.HouseName))
	r.pdf.SetTextColor(110, 110, 110)
	r.centered("Times", "I", 13, 8, "Est. 1961")
	r.pdf.Ln(14)
	r.pdf.SetTextColor(20, 20, 20)
	r.pdf.SetFont("Times", "B", 24)
	r.pdf.MultiCell(r.contentW(), 11, r.tr(a.Title), "", "C", false)
	r.pdf.Ln(4)
	r.pdf.SetTextColor(90, 90, 90)
	r.centered("Helvetica", "", 12, 7, fmt.Sprintf("%s • %s • %s", a.Location, a.Date().Format("2 January 2006"), a.StartTime))
	if t := strings.TrimSpace(a.Theme); t != "" {
		r.pdf.SetFont("Helvetica", "I", 12)
		r.pdf.MultiCell(r.contentW(), 7, r.tr(t), "", "C", false)
	}
	r.centered("Helvetica", "", 10, 7, fmt.Sprintf("%s sale", a.AuctionType))
	r.pdf.Ln(10)
	r.rule()
	r.pdf.SetTextColor(0, 0, 0)
}

// lotHeight estimates the vertical space a section needs so it is never split.
func (r *renderer) lotHeight(l *types.Lot, textW float64) float64 {
	r.pdf.SetFont("Helvetica", "", 9)
	lines := len(r.pdf.SplitText(r.tr(TruncateDescription(l.Description, DescriptionLimit)), textW))
	text := 6 + 7 + 6 + float64(lines)*4.5 + 4 + 6
	if l.Year != nil {
		text += 5
	}
	h := ImageBoxMM
	if text > h {
		h = text
	}
	return h + sectionMM
}

func (r *renderer) lot(e Entry) {
	l := e.Lot
	textX := marginMM + ImageBoxMM + gutterMM
	textW := r.pageW - marginMM - textX

	need := r.lotHeight(l, textW)
	if r.pdf.PageNo() == 1 || r.pdf.GetY()+need > r.pageH-marginMM-8 {
		r.pdf.AddPage()
	}
	top := r.pdf.GetY() + sectionMM/2

	img := e.Image
	if img == nil {
		img = r.doc.Placeholder
	}
	r.image(img, marginMM, top)

	r.pdf.SetXY(textX, top)
	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(textW, 6, r.tr("Lot "+l.LotReference), "", 2, "L", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.SetFont("Times", "B", 15)
	r.pdf.CellFormat(textW, 7, r.tr(l.Artist), "", 2, "L", false, 0, "")
	r.pdf.SetFont("Times", "I", 12)
	r.pdf.CellFormat(textW, 6, r.tr(l.Title), "", 2, "L", false, 0, "")
	if l.Year != nil {
		r.pdf.SetFont("Helvetica", "", 10)
		r.pdf.CellFormat(textW, 5, strconv.Itoa(*l.Year), "", 2, "L", false, 0, "")
	}
	if d := TruncateDescription(l.Description, DescriptionLimit); d != "" {
		r.pdf.SetX(textX)
		r.pdf.SetFont("Helvetica", "", 9)
		r.pdf.MultiCell(textW, 4.5, r.tr(d), "", "J", false)
	}
	r.pdf.Ln(4)
	r.pdf.SetX(textX)
	r.pdf.SetFont("Helvetica", "B", 11)
	r.pdf.CellFormat(textW, 6, r.tr(FormatEstimate(l.EstimateLow, l.EstimateHigh)), "", 1, "L", false, 0, "")

	bottom := top + ImageBoxMM
	if y := r.pdf.GetY(); y > bottom {
		bottom = y
	}
	r.pdf.SetY(bottom + sectionMM/2)
	r.rule()
}

func (r *renderer) image(img *Image, x, y float64) {
	if img == nil || len(img.Data) == 0 {
		r.pdf.SetDrawColor(200, 200, 200)
		r.pdf.Rect(x, y, ImageBoxMM, ImageBoxMM, "D")
		return
	}
	r.imgN++
	name := fmt.Sprintf("lot-image-%d", r.imgN)
	opts := fpdf.ImageOptions{ImageType: img.Format, ReadDpi: false}
	r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	w, h := FitBox(img.Width, img.Height, ImageBoxMM, ImageBoxMM)
	r.pdf.ImageOptions(name, x+(ImageBoxMM-w)/2, y+(ImageBoxMM-h)/2, w, h, false, opts, 0, "")
}

func (r *renderer) closing() {
	r.pdf.AddPage()
	r.pdf.SetY(r.pageH / 3)
	r.pdf.SetTextColor(60, 60, 60)
	r.centered("Times", "B", 18, 10, strings.ToUpper(r.doc.HouseName)+" AUCTION HOUSES")
	r.centered("Helvetica", "", 10, 7, "LONDON • PARIS • NEW YORK")
	r.pdf.Ln(6)
	r.centered("Helvetica", "", 9, 6, "www.fotherbys.com • +44 20 7123 4567")
	r.pdf.Ln(6)
	noun := "lots"
	if len(r.doc.Entries) == 1 {
		noun = "lot"
	}
	r.centered("Helvetica", "I", 9, 6, fmt.Sprintf("%d %s offered in this sale", len(r.doc.Entries), noun))
	r.pdf.SetTextColor(0, 0, 0)
}
