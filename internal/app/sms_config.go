package app

import (
	"strings"

	"github.com/charlesng35/corpman/pkg/sms"
)

// SNSSettings converts SMSConfig to the sms package representation.
func (c SMSConfig) SNSSettings() sms.SNSSettings {
	return sms.SNSSettings{
		Enabled:  c.SNS.Enabled,
		Region:   strings.TrimSpace(c.SNS.Region),
		SenderID: strings.TrimSpace(c.SNS.SenderID),
	}
}
