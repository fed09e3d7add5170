package domain

const (
	MailTypeWelcome     = "welcome"
	MailTypeVerifyEmail = "verify_email"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type WelcomeMailData struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type VerifyEmailMailData struct {
	Email      string `json:"email"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}
