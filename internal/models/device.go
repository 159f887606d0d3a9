package models

// DeviceHeatingStatus is the heater state as last observed via the cloud API.
type DeviceHeatingStatus struct {
	IsHeating    bool `json:"is_heating"`
	HeatingLevel int  `json:"heating_level"` // [-100,100]
}

// DeviceCredentials are the per-user tokens for the device cloud API.
type DeviceCredentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // epoch seconds
}

// Expired reports whether the access token expiry lies before the given
// wall-clock instant.
func (c DeviceCredentials) Expired(nowEpoch int64) bool {
	return c.ExpiresAt <= nowEpoch
}
