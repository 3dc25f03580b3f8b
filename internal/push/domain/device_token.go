package domain

import "time"

// DeviceToken is one registered device of a user, stored under
// fcm_tokens/{userId}.tokens.{deviceId}.
type DeviceToken struct {
	Token     string    `json:"-" firestore:"token"` // Don't expose token in JSON
	Platform  string    `json:"platform" firestore:"platform"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// TokenIndex maps device id to its token entry.
type TokenIndex map[string]DeviceToken

// TokensDocument is the shape of an fcm_tokens/{userId} document.
type TokensDocument struct {
	Tokens TokenIndex `firestore:"tokens"`
}

// DevicesFor returns the device ids whose token is in dead.
func (idx TokenIndex) DevicesFor(dead map[string]struct{}) []string {
	if len(dead) == 0 {
		return nil
	}
	var devices []string
	for deviceID, t := range idx {
		if _, ok := dead[t.Token]; ok {
			devices = append(devices, deviceID)
		}
	}
	return devices
}
