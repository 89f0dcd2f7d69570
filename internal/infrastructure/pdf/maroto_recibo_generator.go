// Package pdf implementa la exportación de un recibo digital como PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón social  │  N° Recibo + Fecha                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Documento                                 │
//	│  VENDEDOR: Nombre + Código                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAGO: Tipo | Método | Estado                                │
//	│  MONTOS: Saldo total / Pagado / Pendiente                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Leyenda de validez                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

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

	apprecibos "github.com/comsanjuan/recibos-admin-api/internal/application/recibos"
	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ apprecibos.PDFGenerator = (*MarotoReciboGenerator)(nil)

// MarotoReciboGenerator implementa recibos.PDFGenerator usando Maroto v2.
type MarotoReciboGenerator struct {
	companyName string
}

// NewMarotoReciboGenerator construye el generador con la razón social que
// encabeza el documento.
func NewMarotoReciboGenerator(companyName string) *MarotoReciboGenerator {
	return &MarotoReciboGenerator{companyName: companyName}
}

// GenerarReciboPDF genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoReciboGenerator) GenerarReciboPDF(recibo dto.ReciboDigital) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo Digital "+recibo.NumeroRecibo, true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.companyName, recibo))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clienteRow(recibo))
	m.AddRows(vendedorRow(recibo))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(pagoRow(recibo))
	m.AddRows(montosRow(recibo))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social (izq) y número + fecha (der).
func headerRow(companyName string, r dto.ReciboDigital) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Recibo digital de pago", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO N°", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(r.NumeroRecibo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+formatFecha(r.FechaGeneracion), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clienteRow: datos del cliente.
func clienteRow(r dto.ReciboDigital) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Documento: %s",
				r.ClienteNombre,
				nonEmpty(r.ClienteDocumento, "—"),
			), props.Text{Size: 9, Top: 7}),
		),
	)
}

// vendedorRow: datos del vendedor que emitió el recibo.
func vendedorRow(r dto.ReciboDigital) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("VENDEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Código: %s",
				nonEmpty(r.VendedorNombre, "—"),
				nonEmpty(r.VendedorCodigo, "—"),
			), props.Text{Size: 9, Top: 7, Color: colorGray}),
		),
	)
}

// pagoRow: tipo, método y estado del pago.
func pagoRow(r dto.ReciboDigital) core.Row {
	celda := func(titulo, valor string) core.Col {
		return col.New(4).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(valor, "—"), props.Text{Size: 9, Top: 7}),
		)
	}
	return row.New(14).Add(
		celda("TIPO DE PAGO", r.TipoPago),
		celda("MÉTODO", r.MetodoPago),
		celda("ESTADO", r.EstadoPago),
	)
}

// montosRow: bloque de montos alineado a la derecha.
func montosRow(r dto.ReciboDigital) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Saldo total:"),
			label("Saldo pendiente:"),
			grandLabel("MONTO PAGADO:"),
		),
		col.New(3).Add(
			value("$"+r.SaldoTotal.StringFixed(2)),
			value("$"+r.SaldoPendiente.StringFixed(2)),
			grandValue("$"+r.MontoPagado.StringFixed(2)),
		),
		col.New(3),
	)
}

// footerRow: leyenda de validez.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Este documento es una representación del recibo digital emitido por el "+
				"sistema de cobranza. Conserve este comprobante como soporte de su pago.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatFecha convierte el ISO 8601 de la API a dd/mm/aaaa; si no parsea,
// devuelve el valor tal cual.
func formatFecha(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
