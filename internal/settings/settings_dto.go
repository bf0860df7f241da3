package settings

type UpdateSettingsRequest struct {
	ManPowerLimit *int `json:"manPowerLimit"`
}
