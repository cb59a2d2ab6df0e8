package services

// EmergencyContact is a crisis line shown to every user, signed in or not.
type EmergencyContact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
}

var emergencyContacts = []EmergencyContact{
	{
		ID:          "suicide-prevention",
		Name:        "National Suicide Prevention Lifeline",
		Description: "Free, confidential support for people in distress, 24/7.",
		Phone:       "988",
	},
	{
		ID:          "crisis-text",
		Name:        "Crisis Text Line",
		Description: "Free, 24/7 crisis support via text message.",
		Phone:       "Text HOME to 741741",
	},
	{
		ID:          "samhsa",
		Name:        "SAMHSA National Helpline",
		Description: "Treatment referral and information service for substance abuse and mental health, 24/7.",
		Phone:       "1-800-662-4357",
	},
	{
		ID:          "domestic-violence",
		Name:        "National Domestic Violence Hotline",
		Description: "Confidential support for those experiencing domestic violence, 24/7.",
		Phone:       "1-800-799-7233",
	},
}

// EmergencyContacts returns a copy so callers cannot mutate the shared list.
func EmergencyContacts() []EmergencyContact {
	out := make([]EmergencyContact, len(emergencyContacts))
	copy(out, emergencyContacts)
	return out
}
