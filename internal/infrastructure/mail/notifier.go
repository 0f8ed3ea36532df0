// Package mail sends transactional notifications over SMTP.
package mail

import (
	"context"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	appprep "github.com/Adrian140/prep-center-api/internal/application/prep"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
	"github.com/Adrian140/prep-center-api/pkg/config"
)

var _ appprep.Notifier = (*Notifier)(nil)

// Notifier implements prep.Notifier over SMTP. The recipient is the company's
// contact address; a company without one is skipped silently.
type Notifier struct {
	cfg       config.SMTPConfig
	baseURL   string
	companies repository.CompanyRepository
}

func NewNotifier(cfg config.SMTPConfig, baseURL string, companies repository.CompanyRepository) *Notifier {
	return &Notifier{cfg: cfg, baseURL: baseURL, companies: companies}
}

// PrepRequestConfirmed mails the confirmation summary to the client company.
func (n *Notifier) PrepRequestConfirmed(_ context.Context, request *entity.PrepRequest, items []*entity.PrepRequestItem) error {
	company, err := n.companies.GetByID(request.CompanyID)
	if err != nil {
		return fmt.Errorf("mail: get company: %w", err)
	}
	if company == nil || company.Email == "" {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.cfg.From)
	msg.SetHeader("To", company.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Forwarding request %s confirmed", request.ID))
	msg.SetBody("text/html", n.confirmationBody(request, items))

	dialer := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send confirmation: %w", err)
	}
	return nil
}

func (n *Notifier) confirmationBody(request *entity.PrepRequest, items []*entity.PrepRequestItem) string {
	var b strings.Builder
	b.WriteString("<p>Your forwarding request has been confirmed and shipped to Amazon.</p>")
	fmt.Fprintf(&b, "<p>Marketplace: <b>%s</b>", request.DestinationCountry)
	if request.AmazonShipmentID != "" {
		fmt.Fprintf(&b, ", Amazon shipment <b>%s</b>", request.AmazonShipmentID)
	}
	b.WriteString("</p>")

	b.WriteString("<table border=\"1\" cellpadding=\"4\" cellspacing=\"0\">")
	b.WriteString("<tr><th>Product</th><th>ASIN</th><th>SKU</th><th>Sent</th></tr>")
	total := 0
	for _, it := range items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td></tr>",
			it.ProductName, it.ASIN, it.SKU, it.QtySent)
		total += it.QtySent
	}
	fmt.Fprintf(&b, "<tr><td colspan=\"3\"><b>Total</b></td><td><b>%d</b></td></tr>", total)
	b.WriteString("</table>")

	if n.baseURL != "" {
		fmt.Fprintf(&b, "<p><a href=\"%s/prep-requests/%s\">View the request</a></p>", n.baseURL, request.ID)
	}
	return b.String()
}
