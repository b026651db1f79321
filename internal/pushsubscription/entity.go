package pushsubscription

import "time"

// Subscription is a staff browser registered for web push.
type Subscription struct {
	ID        string    `yaml:"id" json:"id"`
	Endpoint  string    `yaml:"endpoint" json:"endpoint"`
	P256dhKey string    `yaml:"p256dh_key" json:"-"`
	AuthKey   string    `yaml:"auth_key" json:"-"`
	Label     string    `yaml:"label,omitempty" json:"label,omitempty"`
	CreatedAt time.Time `yaml:"created_at" json:"createdAt"`
}
