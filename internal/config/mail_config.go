package config

type MailConfig interface {
	GetResendAPIKey() string
	GetMailFromName() string
	GetMailFromEmail() string
}

type Mail struct {
	resendAPIKey string
	fromName     string
	fromEmail    string
}

var _ MailConfig = Mail{}

func newMail() Mail {
	return Mail{
		resendAPIKey: GetEnv("RESEND_API_KEY", ""),
		fromName:     GetEnv("MAIL_FROM_NAME", "Task Server"),
		fromEmail:    GetEnv("MAIL_FROM_EMAIL", "no-reply@localhost"),
	}
}

func (m Mail) GetResendAPIKey() string {
	return m.resendAPIKey
}

func (m Mail) GetMailFromName() string {
	return m.fromName
}

func (m Mail) GetMailFromEmail() string {
	return m.fromEmail
}
