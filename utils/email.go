package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// sendEmail delivers an HTML email through the configured SMTP server
func sendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("FROM_EMAIL")

	if smtpHost == "" || smtpPortStr == "" || smtpUser == "" || smtpPass == "" || fromEmail == "" {
		return fmt.Errorf("missing SMTP configuration")
	}

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendPasswordResetOTP emails the OTP used to verify a password reset
func SendPasswordResetOTP(email, name, otp string) error {
	subject := "Password Reset OTP"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Reset Your Password</h2>
			<p>Hello %s,</p>
			<p>You have requested to reset your password. Please use the following OTP code to verify your request:</p>
			<h3 style="background-color: #f0f0f0; padding: 10px; font-size: 24px; letter-spacing: 5px; text-align: center;">%s</h3>
			<p>This code will expire in 15 minutes.</p>
			<p>If you did not request a password reset, please ignore this email.</p>
			<p>Thank you,<br>The Dharamshala Stays Team</p>
		</body>
		</html>
	`, name, otp)

	return sendEmail(email, subject, body)
}

// SendBookingConfirmationEmail notifies the guest after a successful payment
func SendBookingConfirmationEmail(email, name, propertyName, txnID string, checkIn, checkOut time.Time, amount float64) error {
	subject := "Booking Confirmed - " + propertyName
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Your Booking is Confirmed</h2>
			<p>Hello %s,</p>
			<p>Your payment was received and your stay at <b>%s</b> is confirmed.</p>
			<ul>
				<li>Check-in: %s</li>
				<li>Check-out: %s</li>
				<li>Amount paid: ₹%.2f</li>
				<li>Transaction ID: %s</li>
			</ul>
			<p>Show the QR code from your bookings page at check-in.</p>
			<p>Thank you,<br>The Dharamshala Stays Team</p>
		</body>
		</html>
	`, name, propertyName, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"), amount, txnID)

	return sendEmail(email, subject, body)
}
