// file: services/ticket.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"founders-fest/models"

	"github.com/yuin/goldmark"
)

// TicketEmail is a rendered e-ticket ready to hand to the mailer.
type TicketEmail struct {
	To      string
	From    string
	Subject string
	HTML    string
	QRURL   string
}

var ticketTemplate = template.Must(template.New("ticket").Parse(`
<div style="font-family:Arial,Helvetica,sans-serif;background:#0b0b0b;color:#fff;padding:24px">
	<div style="max-width:640px;margin:0 auto;background:#111;border:1px solid #333;border-radius:12px;overflow:hidden">
		<div style="padding:20px 24px;background:#ffd400;color:#111;font-weight:700;font-size:18px">Founders Fest E-ticket</div>
		<div style="padding:24px">
			<div style="margin:0 0 12px 0;color:#ddd">{{.Body}}</div>
			<div style="margin:18px 0;padding:16px;border:1px solid #222;border-radius:10px;background:#0f0f0f">
				<div style="font-size:16px;margin-bottom:10px"><strong>Name:</strong> {{.Name}}</div>
				<div style="font-size:16px;margin-bottom:10px"><strong>Email:</strong> {{.Email}}</div>
				<div style="font-size:16px;margin-bottom:10px"><strong>City:</strong> {{.City}}</div>
				<div style="margin-top:16px;text-align:center">
					<img alt="E-ticket QR" src="{{.QRURL}}" width="{{.QRSize}}" height="{{.QRSize}}" style="display:inline-block;border-radius:8px;border:1px solid #222" />
				</div>
				<div style="font-size:12px;color:#aaa;margin-top:10px;text-align:center">Present this QR at entry</div>
			</div>
			<p style="margin:12px 0 0 0;color:#aaa;font-size:12px">If you didn't request this, please ignore.</p>
		</div>
	</div>
</div>
`))

// TicketQRURL points at this service's QR endpoint for the attendee's ticket code.
func TicketQRURL(baseURL string, a *models.Attendee) string {
	q := url.Values{}
	q.Set("data", a.TicketCode())
	q.Set("size", strconv.Itoa(DefaultQRSize))
	return baseURL + "/tickets/qr.png?" + q.Encode()
}

// BuildTicketEmail renders the e-ticket for a. The template body is Markdown;
// attendee fields are escaped.
func BuildTicketEmail(es models.EmailSettings, a *models.Attendee, baseURL string) (TicketEmail, error) {
	def := models.DefaultTicketEmail()
	subject := es.Subject
	if subject == "" {
		subject = def.Subject
	}
	bodyText := es.Body
	if bodyText == "" {
		bodyText = def.Body
	}

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(bodyText), &body); err != nil {
		return TicketEmail{}, fmt.Errorf("render ticket body: %w", err)
	}

	qrURL := TicketQRURL(baseURL, a)
	var out bytes.Buffer
	err := ticketTemplate.Execute(&out, map[string]any{
		// goldmark escapes raw HTML in the source
		"Body":   template.HTML(body.String()),
		"Name":   a.Name,
		"Email":  a.Email,
		"City":   a.City,
		"QRURL":  qrURL,
		"QRSize": DefaultQRSize,
	})
	if err != nil {
		return TicketEmail{}, fmt.Errorf("render ticket: %w", err)
	}

	return TicketEmail{
		To:      a.Email,
		From:    es.Sender,
		Subject: subject,
		HTML:    out.String(),
		QRURL:   qrURL,
	}, nil
}
