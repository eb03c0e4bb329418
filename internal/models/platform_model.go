package models

import (
	"errors"
	"fmt"
	"time"
)

type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// Platforms lists every supported platform in display order.
var Platforms = []Platform{
	PlatformTwitter,
	PlatformInstagram,
	PlatformLinkedIn,
	PlatformFacebook,
	PlatformTikTok,
	PlatformYouTube,
}

type PlatformStyle struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var platformStyles = map[Platform]PlatformStyle{
	PlatformTwitter:   {Label: "Twitter", Color: "bg-blue-400", Icon: "twitter"},
	PlatformInstagram: {Label: "Instagram", Color: "bg-pink-500", Icon: "instagram"},
	PlatformLinkedIn:  {Label: "LinkedIn", Color: "bg-blue-700", Icon: "linkedin"},
	PlatformFacebook:  {Label: "Facebook", Color: "bg-blue-600", Icon: "facebook"},
	PlatformTikTok:    {Label: "TikTok", Color: "bg-black", Icon: "music"},
	PlatformYouTube:   {Label: "YouTube", Color: "bg-red-600", Icon: "youtube"},
}

var UnknownPlatformStyle = PlatformStyle{Label: "Unknown", Color: "bg-gray-200", Icon: "globe"}

func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if _, ok := platformStyles[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
	return p, nil
}

func ParsePlatforms(values []string) ([]Platform, error) {
	platforms := make([]Platform, 0, len(values))
	for _, v := range values {
		p, err := ParsePlatform(v)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return platforms, nil
}

func (p *Platform) UnmarshalText(text []byte) error {
	parsed, err := ParsePlatform(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// StyleOf returns the display style for p, or UnknownPlatformStyle.
func StyleOf(p Platform) PlatformStyle {
	if style, ok := platformStyles[p]; ok {
		return style
	}
	return UnknownPlatformStyle
}

type ConnectionStatus string

const (
	ConnectionActive      ConnectionStatus = "active"
	ConnectionRateLimited ConnectionStatus = "rate_limited"
	ConnectionInactive    ConnectionStatus = "inactive"
)

type PlatformConnection struct {
	ID        int64            `db:"id" json:"id"`
	UserID    int64            `db:"user_id" json:"userId,omitempty"`
	Platform  Platform         `db:"platform" json:"platform"`
	Username  string           `db:"username" json:"username"`
	Status    ConnectionStatus `db:"status" json:"status"`
	Primary   bool             `db:"-" json:"primary"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}
