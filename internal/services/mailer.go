package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// Mailer sends transactional email.
type Mailer interface {
	SendPurchaseEmail(data PurchaseEmail) error
	SendOTPEmail(to, code string) error
}

// PurchaseEmail carries the data rendered into a purchase or borrow
// confirmation message.
type PurchaseEmail struct {
	CustomerName  string
	Email         string
	BookTitle     string
	Quantity      int
	Price         float64
	InvoiceNumber string
	Category      string
}

// SMTPMailer delivers mail over an authenticated STARTTLS SMTP session.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewSMTPMailer constructs an SMTPMailer.
func NewSMTPMailer(host, port, user, pass, from string) *SMTPMailer {
	if from == "" {
		from = user
	}
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

// SendPurchaseEmail sends a confirmation message. Library titles use borrow
// framing and omit price lines; everything else shows price and total.
func (m *SMTPMailer) SendPurchaseEmail(data PurchaseEmail) error {
	isLibrary := strings.ToLower(data.Category) == "library"

	subject := fmt.Sprintf("Purchase Confirmation: %s", data.BookTitle)
	action := "purchasing"
	if isLibrary {
		subject = fmt.Sprintf("Borrow Confirmation: %s", data.BookTitle)
		action = "borrowing"
	}

	invoice := data.InvoiceNumber
	if invoice == "" {
		invoice = "N/A"
	}

	var priceInfo string
	if !isLibrary {
		total := float64(data.Quantity) * data.Price
		priceInfo = fmt.Sprintf(
			`<li style="margin-bottom: 5px;"><strong>Price:</strong> ₹%.2f</li>
<li style="margin-bottom: 5px;"><strong>Total:</strong> ₹%.2f</li>`,
			data.Price, total)
	}

	body := fmt.Sprintf(`<div style="font-family: 'Segoe UI', Tahoma, sans-serif; background-color: #f2f2f2; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
    <div style="background: #5D9CEC; padding: 20px; text-align: center;">
      <h1 style="color: #fff; margin: 0; font-size: 28px;">Thank You!</h1>
    </div>
    <div style="padding: 20px; color: #333;">
      <p style="margin-bottom: 15px; font-size: 16px;">Dear <strong>%s</strong>,</p>
      <p style="margin-bottom: 15px; font-size: 16px;">Thank you for <strong>%s %s</strong>.</p>
      <h3 style="margin-bottom: 10px; font-size: 18px; border-bottom: 1px solid #ddd; padding-bottom: 5px;">Order Details</h3>
      <ul style="list-style-type: none; padding-left: 0; margin-bottom: 20px; font-size: 15px;">
        <li style="margin-bottom: 5px;"><strong>Invoice:</strong> %s</li>
        <li style="margin-bottom: 5px;"><strong>Quantity:</strong> %d</li>
        %s
      </ul>
      <p style="margin-bottom: 15px; font-size: 16px;">Your order will be processed shortly. If you have any questions, please contact our support team.</p>
      <p style="margin-bottom: 0; font-size: 16px;">Best Regards,<br/><strong>Church life team</strong></p>
    </div>
    <div style="background: #f4f4f4; padding: 10px; text-align: center; font-size: 12px; color: #666;">
      © %d Church life Munirka. All rights reserved.
    </div>
  </div>
</div>`,
		data.CustomerName, action, data.BookTitle, invoice, data.Quantity, priceInfo, time.Now().Year())

	return m.send(data.Email, subject, body, "text/html")
}

// SendOTPEmail sends a one-time verification code.
func (m *SMTPMailer) SendOTPEmail(to, code string) error {
	body := fmt.Sprintf("Your OTP is: %s. It is valid for 5 minutes.", code)
	return m.send(to, "Your OTP for Verification", body, "text/plain")
}

func (m *SMTPMailer) send(to, subject, body, contentType string) error {
	if m.host == "" || m.user == "" || m.pass == "" {
		return fmt.Errorf("smtp not configured")
	}

	addr := m.host + ":" + m.port
	msg := "From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: " + contentType + "; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n"

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("failed to auth: %w", err)
	}

	if err = client.Mail(m.from); err != nil {
		return fmt.Errorf("failed to set MAIL FROM: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open DATA: %w", err)
	}
	if _, err = w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return client.Quit()
}
