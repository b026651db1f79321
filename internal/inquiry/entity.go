package inquiry

import "time"

// Inquiry is a request for one of the studio's services.
type Inquiry struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Email       string    `json:"email" yaml:"email"`
	Phone       string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	ServiceType string    `json:"serviceType" yaml:"service_type"`
	Message     string    `json:"message" yaml:"message"`
	Budget      string    `json:"budget,omitempty" yaml:"budget,omitempty"`
	Timeline    string    `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	ReceivedAt  time.Time `json:"receivedAt" yaml:"received_at"`
}

// Contact is a general contact form submission.
type Contact struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Email      string    `json:"email" yaml:"email"`
	Subject    string    `json:"subject" yaml:"subject"`
	Message    string    `json:"message" yaml:"message"`
	ReceivedAt time.Time `json:"receivedAt" yaml:"received_at"`
}
