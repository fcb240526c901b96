package config

import (
	"os"
	"time"
)

type Config struct {
	// Availity portal
	LoginURL string
	APIURL   string
	UserID   string
	Password string

	// Fixed business payload sent with every referral fetch.
	Brand     string
	NPI       string
	State     string
	TabStatus string
	TaxID     string

	// PollInterval is how often referrals are fetched after the first cycle.
	// The bot historically ran at 60*9000ms (9 minutes) next to a comment
	// claiming 3 minutes; we keep 9 minutes as the default and let
	// POLL_INTERVAL override it rather than guess which figure was meant.
	PollInterval time.Duration

	MarkerFile string
	CookieFile string
	SQLitePath string
	Port       string

	// Notification channels
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	NotifyEmail string

	TwilioSID   string
	TwilioToken string
	TwilioPhone string
	NotifyPhone string

	// Optional Notion alert sink; disabled when the token is empty.
	NotionToken string
	NotionDBID  string
}

const DefaultPollInterval = 9 * time.Minute

func Load() Config {

	cfg := Config{
		LoginURL: getenv("AVAILITY_LOGIN_URL", "https://apps.availity.com/login"),
		APIURL:   getenv("AVAILITY_API_URL", "https://apps.availity.com/api/v1/proxy/anthem/provconn/v1/carecentral/ltss/referral/details"),
		UserID:   os.Getenv("AVAILITY_USER_ID"),
		Password: os.Getenv("AVAILITY_PASSWORD"),

		Brand:     getenv("REFERRAL_BRAND", "WLP"),
		NPI:       getenv("REFERRAL_NPI", "1184328189"),
		State:     getenv("REFERRAL_STATE", "TN"),
		TabStatus: getenv("REFERRAL_TAB_STATUS", "INCOMING"),
		TaxID:     getenv("REFERRAL_TAX_ID", "922753606"),

		PollInterval: DefaultPollInterval,

		MarkerFile: getenv("MARKER_FILE", "2fa_done.txt"),
		CookieFile: getenv("COOKIE_FILE", "cookies.json"),
		SQLitePath: getenv("CHIDIBOT_DB", "chidibot.sqlite"),
		Port:       getenv("PORT", "5555"),

		SMTPHost:    getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:    587,
		SMTPUser:    os.Getenv("EMAIL_USER"),
		SMTPPass:    os.Getenv("EMAIL_PASS"),
		NotifyEmail: os.Getenv("NOTIFY_EMAIL"),

		TwilioSID:   os.Getenv("TWILIO_SID"),
		TwilioToken: os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhone: os.Getenv("TWILIO_PHONE"),
		NotifyPhone: os.Getenv("NOTIFY_PHONE"),

		NotionToken: os.Getenv("NOTION_TOKEN"),
		NotionDBID:  os.Getenv("NOTION_DB_ID"),
	}

	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
