package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	TransportSMTP     = "smtp"
	TransportPostmark = "postmark"
	TransportSendgrid = "sendgrid"
)

// Config holds everything the server reads from the environment
type Config struct {
	Port      string
	PublicURL string

	Mail MailConfig

	// Optional; empty disables the cart event forwarder
	RabbitMQURL string

	CORSAllowOrigins []string
}

// MailConfig selects and configures the mail transport used for bills.
// The SMTP fallbacks are placeholders, not working credentials.
type MailConfig struct {
	Transport string
	From      string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	PostmarkToken string
	SendgridKey   string
}

// LoadDotEnv loads variables from the given files (".env" when none are
// given). Variables already set in the environment win.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load reads the configuration from the environment
func Load() Config {
	port := getenv("PORT", "3000")
	smtpUser := getenv("SMTP_USER", "billing@smartwiz.local")

	return Config{
		Port:      port,
		PublicURL: getenv("PUBLIC_URL", "http://localhost:"+port),
		Mail: MailConfig{
			Transport:     strings.ToLower(getenv("MAIL_TRANSPORT", TransportSMTP)),
			From:          getenv("MAIL_FROM", smtpUser),
			SMTPHost:      getenv("SMTP_HOST", "smtp.hostinger.com"),
			SMTPPort:      getenvInt("SMTP_PORT", 465),
			SMTPUser:      smtpUser,
			SMTPPass:      os.Getenv("SMTP_PASS"),
			PostmarkToken: os.Getenv("POSTMARK_API_TOKEN"),
			SendgridKey:   os.Getenv("SENDGRID_API_KEY"),
		},
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	n, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return def
	}
	return n
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
