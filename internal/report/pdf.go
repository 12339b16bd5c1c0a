package report

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

// PDF renders the table on an A4 portrait page.
func PDF(t YearTable) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	generated := t.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(t.Title(), props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text("Generated "+generated.Format("2006-01-02 15:04 MST"), props.Text{
					Top:   2,
					Align: consts.Center,
					Size:  9,
				})
			})
		})
	})

	rows := make([][]string, 0, len(t.Months))
	for _, b := range t.Months {
		rows = append(rows, []string{b.Name, b.Clock, fmt.Sprintf("%.2f", hours(b.Seconds))})
	}

	m.TableList([]string{"Month", "Worked", "Hours"}, rows, props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: []uint{4, 4, 4},
		},
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: []uint{4, 4, 4},
		},
		Align:                consts.Center,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 false,
	})

	total := t.Total()
	m.Row(20, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Total: %s (%.2f h)", total.Clock, hours(total.Seconds)), props.Text{
				Top:   10,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
