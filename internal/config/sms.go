package config

type SMSConfig struct {
	Provider string        `yaml:"provider"`
	Twilio   *TwilioConfig `yaml:"twilio"`
	SNS      *SNSConfig    `yaml:"sns"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type SNSConfig struct {
	Region string `yaml:"region"`
}

func loadSMSConfig() *SMSConfig {
	return &SMSConfig{
		Provider: getEnv("SMS_PROVIDER", ""),
		Twilio: &TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		},
		SNS: &SNSConfig{
			Region: getEnv("AWS_SNS_REGION", "us-east-1"),
		},
	}
}

func (c *SMSConfig) Enabled() bool {
	return c.Provider != ""
}
