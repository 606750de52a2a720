package models

// Contact is an immutable contact-form message.
type Contact struct {
	BaseModel
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Additional string `json:"additional"`
}
