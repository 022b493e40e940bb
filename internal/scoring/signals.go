package scoring

import "fmt"

// signalGroup is one scam category's phrase table. A group contributes its
// weight at most once per text regardless of how many phrases matched, so
// the score grows with the number of independent categories rather than
// with phrase repetition.
type signalGroup struct {
	name    string
	weight  float64
	phrases []string
	// reason renders the human-readable explanation for this group. The
	// matched phrase is passed in so groups that cover several distinct
	// payment instruments can name the one that fired.
	reason func(phrase string) string
}

func staticReason(text string) func(string) string {
	return func(string) string { return text }
}

func defaultSignalGroups() []signalGroup {
	return []signalGroup{
		{
			name:   "authority",
			weight: 0.30,
			phrases: []string{
				"irs", "internal revenue", "social security administration",
				"arrest warrant", "warrant for your arrest", "federal agent",
				"law enforcement", "legal action", "medicare", "fbi",
			},
			reason: staticReason("authority impersonation detected"),
		},
		{
			name:   "urgency",
			weight: 0.25,
			phrases: []string{
				"urgent", "immediately", "immediate", "act now", "right away",
				"expires today", "final notice", "last chance",
				"within 24 hours", "before it's too late", "don't delay",
			},
			reason: staticReason("urgency language detected"),
		},
		{
			name:   "account_threat",
			weight: 0.30,
			phrases: []string{
				"account will be suspended", "account has been suspended",
				"account suspended", "account will be closed",
				"account has been compromised", "account locked",
				"verify your account", "unusual activity",
			},
			reason: staticReason("account threat pressure detected"),
		},
		{
			name:   "payment",
			weight: 0.35,
			phrases: []string{
				"gift card", "itunes card", "google play card",
				"wire transfer", "bitcoin", "cryptocurrency", "money order",
				"prepaid card", "western union", "moneygram",
			},
			reason: func(phrase string) string {
				return fmt.Sprintf("%s payment request detected", phrase)
			},
		},
		{
			name:   "tech_support",
			weight: 0.30,
			phrases: []string{
				"microsoft support", "apple support", "virus detected",
				"your computer is infected", "remote access", "teamviewer",
				"anydesk", "tech support", "refund department",
			},
			reason: staticReason("tech support scam pattern detected"),
		},
		{
			name:   "prize",
			weight: 0.25,
			phrases: []string{
				"congratulations", "you have won", "you've won", "you won",
				"claim your prize", "lottery", "lucky winner", "free prize",
				"sweepstakes",
			},
			reason: staticReason("prize or lottery bait detected"),
		},
		{
			name:   "verification",
			weight: 0.35,
			phrases: []string{
				"verification code", "one-time code", "one time code", "otp",
				"pin number", "read me the code", "confirm your ssn",
				"social security number", "security code",
			},
			reason: staticReason("request for a verification code or personal numbers detected"),
		},
	}
}

// urgencyChannelBias scales the urgency group only: pressure phrasing is a
// stronger tell on live channels than in mail that sat in a mailbox.
var urgencyChannelBias = map[Channel]float64{
	ChannelCall:      1.3,
	ChannelVoicemail: 1.3,
	ChannelSMS:       1.0,
	ChannelWeb:       1.0,
	ChannelEmail:     0.9,
	ChannelLetter:    0.7,
}

func channelBias(group string, channel Channel) float64 {
	if group != "urgency" {
		return 1.0
	}
	if b, ok := urgencyChannelBias[channel]; ok {
		return b
	}
	return 1.0
}
