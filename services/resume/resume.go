// Package resume renders the end-of-service summary mails. The HTML
// body doubles as the archived snapshot, so the passenger renderer must
// stay self-contained (inline styles, absolute image URLs).
package resume

import (
	"fmt"
	"html"
	"strings"
)

// Service carries everything the summary needs. Source and Destiny hold
// the reverse-geocoded endpoints when route points existed, otherwise
// the textual addresses from the order.
type Service struct {
	ID            uint
	Reference     string
	Date          string
	StartDate     string
	StartTime     string
	EndTime       string
	Source        string
	Destiny       string
	PassengerName string
	DriverName    string
	DriverCode    string
	MapURL        string
	Distance      string
	Elapsed       string
}

// RenderPassenger returns the HTML body and its plaintext alternative
// for the passenger copy.
func RenderPassenger(s Service) (string, string) {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;color:#333">`)
	fmt.Fprintf(&b, `<h2 style="color:#1a3e6e">Resumen de su servicio</h2>`)
	fmt.Fprintf(&b, `<p>Estimado(a) %s,</p>`, html.EscapeString(s.PassengerName))
	fmt.Fprintf(&b, `<p>Gracias por viajar con Transportes Ejecutivos. Este es el resumen de su servicio <b>%s</b> del %s.</p>`,
		html.EscapeString(s.Reference), html.EscapeString(s.Date))
	b.WriteString(`<table style="width:100%;border-collapse:collapse">`)
	writeRow(&b, "Conductor", s.DriverName)
	writeRow(&b, "Hora de inicio", s.StartTime)
	writeRow(&b, "Hora de finalización", s.EndTime)
	writeRow(&b, "Duración", s.Elapsed)
	writeRow(&b, "Origen", s.Source)
	writeRow(&b, "Destino", s.Destiny)
	writeRow(&b, "Distancia recorrida", s.Distance)
	b.WriteString(`</table>`)
	if s.MapURL != "" {
		fmt.Fprintf(&b, `<p><img src="%s" alt="Recorrido del servicio" style="width:100%%;max-width:600px"/></p>`,
			html.EscapeString(s.MapURL))
	}
	b.WriteString(`<p style="font-size:12px;color:#888">Transportes Ejecutivos</p></div>`)

	return b.String(), plaintext(s, "Resumen de su servicio "+s.Reference)
}

// RenderDriver returns the HTML body and plaintext alternative for the
// driver's archival copy.
func RenderDriver(s Service) (string, string) {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;color:#333">`)
	fmt.Fprintf(&b, `<h2 style="color:#1a3e6e">Servicio finalizado %s</h2>`, html.EscapeString(s.Reference))
	fmt.Fprintf(&b, `<p>Conductor %s (%s)</p>`, html.EscapeString(s.DriverName), html.EscapeString(s.DriverCode))
	b.WriteString(`<table style="width:100%;border-collapse:collapse">`)
	writeRow(&b, "Pasajero", s.PassengerName)
	writeRow(&b, "Fecha", s.Date)
	writeRow(&b, "Hora de inicio", s.StartTime)
	writeRow(&b, "Hora de finalización", s.EndTime)
	writeRow(&b, "Duración", s.Elapsed)
	writeRow(&b, "Origen", s.Source)
	writeRow(&b, "Destino", s.Destiny)
	writeRow(&b, "Distancia recorrida", s.Distance)
	b.WriteString(`</table></div>`)

	return b.String(), plaintext(s, "Servicio finalizado "+s.Reference)
}

func writeRow(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, `<tr><td style="padding:6px;border-bottom:1px solid #eee"><b>%s</b></td>`+
		`<td style="padding:6px;border-bottom:1px solid #eee">%s</td></tr>`,
		html.EscapeString(label), html.EscapeString(value))
}

func plaintext(s Service, title string) string {
	lines := []string{title, ""}
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, label+": "+value)
		}
	}
	add("Pasajero", s.PassengerName)
	add("Conductor", s.DriverName)
	add("Fecha", s.Date)
	add("Hora de inicio", s.StartTime)
	add("Hora de finalización", s.EndTime)
	add("Duración", s.Elapsed)
	add("Origen", s.Source)
	add("Destino", s.Destiny)
	add("Distancia recorrida", s.Distance)
	return strings.Join(lines, "\n")
}
