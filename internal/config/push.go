package config

type PushConfig struct {
	FCMCredentialsFile string `yaml:"fcm_credentials_file"`
}

func loadPushConfig() *PushConfig {
	return &PushConfig{
		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),
	}
}

func (c *PushConfig) Enabled() bool {
	return c.FCMCredentialsFile != ""
}
