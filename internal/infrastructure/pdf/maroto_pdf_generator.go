// Package pdf renders the packing slip that accompanies a confirmed
// forwarding request to an Amazon fulfillment center.
//
// A4 layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: prep center name  │  Request ID + confirmed date   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENT: company + contact                                  │
//	│  DESTINATION: country + Amazon shipment ID                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Product | ASIN | SKU | Requested | Sent             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL UNITS SENT                                           │
//	│  TRACKING NUMBERS                                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appprep "github.com/Adrian140/prep-center-api/internal/application/prep"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implements prep.PackingSlipGenerator using Maroto v2.
type MarotoPDFGenerator struct {
	centerName string
}

// NewMarotoPDFGenerator builds the generator. centerName appears in the
// slip header.
func NewMarotoPDFGenerator(centerName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{centerName: centerName}
}

var _ appprep.PackingSlipGenerator = (*MarotoPDFGenerator)(nil)

// GeneratePackingSlip renders the slip and returns its bytes.
func (g *MarotoPDFGenerator) GeneratePackingSlip(
	_ context.Context,
	request *entity.PrepRequest,
	company *entity.Company,
	items []*entity.PrepRequestItem,
	trackings []*entity.PrepRequestTracking,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Packing Slip", true).
		WithAuthor(g.centerName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.centerName, request))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(company))
	m.AddRows(destinationRow(request))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(items))

	if len(trackings) > 0 {
		m.AddRows(line.NewRow(3))
		for _, r := range trackingRows(trackings) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: prep center name (left), request id + confirmed date (right).
func headerRow(centerName string, request *entity.PrepRequest) core.Row {
	date := ""
	if request.ConfirmedAt != nil {
		date = request.ConfirmedAt.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(centerName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("FBA forwarding packing slip", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PACKING SLIP", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(request.ID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7,
			}),
			text.New("Confirmed: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func clientRow(company *entity.Company) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("VAT: %s   |   Email: %s   |   Phone: %s",
				nonEmpty(company.VATNumber, "—"),
				nonEmpty(company.Email, "—"),
				nonEmpty(company.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func destinationRow(request *entity.PrepRequest) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DESTINATION", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Marketplace: %s   |   Ships from: %s   |   Amazon shipment: %s",
				request.DestinationCountry,
				nonEmpty(request.WarehouseCountry, "—"),
				nonEmpty(request.AmazonShipmentID, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Product", 5, align.Left),
		h("ASIN", 2, align.Left),
		h("SKU", 2, align.Left),
		h("Requested", 1, align.Right),
		h("Sent", 2, align.Right),
	)
}

func tableDetailRows(items []*entity.PrepRequestItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(
				nonEmpty(it.ProductName, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.ASIN,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.SKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.QtyRequested),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", it.QtySent),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(items []*entity.PrepRequestItem) core.Row {
	total := 0
	for _, it := range items {
		total += it.QtySent
	}
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL SENT:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(2).Add(text.New(fmt.Sprintf("%d", total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func trackingRows(trackings []*entity.PrepRequestTracking) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("TRACKING NUMBERS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, t := range trackings {
		label := t.Number
		if t.Carrier != "" {
			label = t.Carrier + " " + t.Number
		}
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
