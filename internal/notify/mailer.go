package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers rendered notifications over SMTP. Delivery is best effort
// end to end: callers log a failed send and move on.
type Mailer struct {
	Addr string // host:port
	From string
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", m.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg))
}
