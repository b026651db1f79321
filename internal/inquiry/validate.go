package inquiry

import (
	"net/mail"
	"strings"

	"github.com/fortytwo-ai/horizon/pkg/cerr"
)

const (
	MsgMissingFields = "Missing required fields"
	MsgInvalidEmail  = "Invalid email address"
)

type validator struct {
	missing *cerr.Error
}

func (v *validator) require(field, value string) {
	if strings.TrimSpace(value) != "" {
		return
	}
	if v.missing == nil {
		v.missing = cerr.NewError(cerr.InvalidArgument, MsgMissingFields, nil)
	}
	v.missing.AddViolation(field, "is required")
}

func (v *validator) err(email string) error {
	if v.missing != nil {
		return v.missing
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return cerr.NewError(cerr.InvalidArgument, MsgInvalidEmail, err).
			AddViolation("email", "must be a valid email address")
	}
	return nil
}

// Validate checks the fields a service inquiry cannot be relayed without.
func (i *Inquiry) Validate() error {
	var v validator
	v.require("name", i.Name)
	v.require("email", i.Email)
	v.require("serviceType", i.ServiceType)
	v.require("message", i.Message)
	return v.err(i.Email)
}

func (c *Contact) Validate() error {
	var v validator
	v.require("name", c.Name)
	v.require("email", c.Email)
	v.require("subject", c.Subject)
	v.require("message", c.Message)
	return v.err(c.Email)
}
