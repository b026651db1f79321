package inquiry

import "context"

// Repository archives submissions so they survive a mail relay failure.
type Repository interface {
	CreateInquiry(ctx context.Context, i *Inquiry) error
	CreateContact(ctx context.Context, c *Contact) error
	ListInquiries(ctx context.Context) ([]*Inquiry, error)
	ListContacts(ctx context.Context) ([]*Contact, error)
}
